package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// eventStream writes server-sent events. Payloads are JSON encoded so chunks
// with newlines stay inside one data line.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// newEventStream sets the event-stream headers. It fails when w cannot flush.
func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer %T cannot flush", w)
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &eventStream{w: w, flusher: flusher}, nil
}

func (s *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// done writes the terminating [DONE] marker.
func (s *eventStream) done() {
	_, _ = fmt.Fprint(s.w, "data: [DONE]\n\n")
	s.flusher.Flush()
}
