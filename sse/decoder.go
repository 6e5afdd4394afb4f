// Package sse implements an incremental decoder for Server-Sent-Events
// framing: `event:`/`data:` lines, comment lines starting with ':', and
// blank-line frame delimiters. It is independent of any transport so the
// parsing state machine can be tested on its own.
package sse

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Event is one decoded SSE frame.
type Event struct {
	Name string
	Data []byte
	ID   string
}

// Decoder pulls events off a stream. Not safe for concurrent use.
type Decoder struct {
	reader *bufio.Reader
	done   bool
}

// NewDecoder wraps r. The caller retains ownership of the underlying body
// and closes it when done.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Next returns the next event. ok is false once the stream ended cleanly.
// Frames with neither a name nor data (heartbeat comments, stray blank
// lines) are skipped.
func (d *Decoder) Next() (Event, bool, error) {
	if d.done {
		return Event{}, false, nil
	}
	for {
		ev, err := d.readEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.done = true
				return Event{}, false, nil
			}
			return Event{}, false, err
		}
		if ev.Name == "" && len(ev.Data) == 0 {
			continue
		}
		return ev, true, nil
	}
}

func (d *Decoder) readEvent() (Event, error) {
	var ev Event
	var dataBuilder strings.Builder
	flush := func() Event {
		ev.Data = []byte(dataBuilder.String())
		return ev
	}
	for {
		line, err := d.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return Event{}, io.EOF
			}
			if errors.Is(err, io.EOF) {
				line = strings.TrimRight(line, "\r\n")
				if line == "" {
					return flush(), nil
				}
			} else {
				return Event{}, err
			}
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return flush(), nil
		}
		switch {
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(line[len("event:"):])
		case strings.HasPrefix(line, "id:"):
			ev.ID = strings.TrimSpace(line[len("id:"):])
		case strings.HasPrefix(line, "data:"):
			if dataBuilder.Len() > 0 {
				dataBuilder.WriteByte('\n')
			}
			dataBuilder.WriteString(strings.TrimSpace(line[len("data:"):]))
		}
	}
}
