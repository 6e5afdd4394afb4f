// Package testutil provides helpers for SDK tests.
package testutil

import (
	"fmt"
	"net/http"
	"time"
)

// SSEStep describes one event frame to emit with an optional delay.
type SSEStep struct {
	Delay time.Duration
	Event string
	Data  string
	// Comment emits a `: ...` heartbeat line instead of an event frame.
	Comment string
}

// WriteSSE streams the steps as text/event-stream frames, flushing after
// each one.
func WriteSSE(w http.ResponseWriter, steps []SSEStep) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	for _, step := range steps {
		if step.Delay > 0 {
			time.Sleep(step.Delay)
		}
		if step.Comment != "" {
			fmt.Fprintf(w, ": %s\n\n", step.Comment)
		} else {
			if step.Event != "" {
				fmt.Fprintf(w, "event: %s\n", step.Event)
			}
			fmt.Fprintf(w, "data: %s\n\n", step.Data)
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
