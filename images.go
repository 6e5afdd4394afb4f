package sdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vereint/vereint-go/routes"
)

// ImagesClient uploads project and profile images.
type ImagesClient struct {
	client *Client
}

// UploadedImage is the stored location of an uploaded image.
type UploadedImage struct {
	URL string `json:"url"`
}

// Upload sends the image as multipart form data and returns its stored URL.
// The whole payload is buffered so the 401 refresh-and-retry path can replay
// the request body.
func (c *ImagesClient) Upload(ctx context.Context, filename string, content io.Reader) (UploadedImage, error) {
	if c == nil || c.client == nil {
		return UploadedImage{}, fmt.Errorf("sdk: images client not initialized")
	}
	if strings.TrimSpace(filename) == "" {
		return UploadedImage{}, fmt.Errorf("sdk: filename required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return UploadedImage{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadedImage{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadedImage{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.client.buildURL(routes.Images), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return UploadedImage{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	injectTraceparent(ctx, req)

	resp, err := c.client.send(req)
	if err != nil {
		return UploadedImage{}, err
	}
	defer resp.Body.Close()
	var image UploadedImage
	if err := decodeData(resp, &image); err != nil {
		return UploadedImage{}, err
	}
	return image, nil
}
