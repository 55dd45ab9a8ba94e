package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/claude-session/internal"
)

// JSONExporter exports conversations as one indented JSON document
type JSONExporter struct{}

// Export exports a conversation to JSON format
func (e *JSONExporter) Export(conv *internal.FullConversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(conv); err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
