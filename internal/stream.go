package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// Stream event types sent to chat clients. Each event is one self-contained
// JSON object on its own line; consumers buffer partial lines and only decode
// complete ones.
const (
	EventClaudeJSON = "claude_json" // wraps one raw assistant-process message
	EventDone       = "done"        // terminal: turn completed normally
	EventError      = "error"       // terminal: turn failed
	EventAborted    = "aborted"     // terminal: caller aborted mid-turn
)

// StreamEvent is one line of the chat response stream.
type StreamEvent struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// EventWriter frames StreamEvents as newline-delimited JSON, flushing after
// every event so clients observe them incrementally.
type EventWriter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

// NewEventWriter wraps w; if w also implements http.Flusher each event is
// flushed to the client as it is written.
func NewEventWriter(w io.Writer) *EventWriter {
	ew := &EventWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		ew.flusher = f
	}
	return ew
}

// Write emits one event as a single line.
func (ew *EventWriter) Write(ev StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ew.mu.Lock()
	defer ew.mu.Unlock()
	if _, err := ew.w.Write(append(data, '\n')); err != nil {
		return err
	}
	if ew.flusher != nil {
		ew.flusher.Flush()
	}
	return nil
}

// WriteData emits a claude_json event wrapping one assistant-process message.
func (ew *EventWriter) WriteData(raw json.RawMessage) error {
	return ew.Write(StreamEvent{Type: EventClaudeJSON, Data: raw})
}

// WriteDone emits the terminal done event.
func (ew *EventWriter) WriteDone() error {
	return ew.Write(StreamEvent{Type: EventDone})
}

// WriteError emits a terminal error event with a human-readable detail.
func (ew *EventWriter) WriteError(msg string) error {
	return ew.Write(StreamEvent{Type: EventError, Error: msg})
}

// WriteAborted emits the aborted marker. Deliberately not the done event:
// an aborted stream must never look like a successful completion.
func (ew *EventWriter) WriteAborted() error {
	return ew.Write(StreamEvent{Type: EventAborted})
}
