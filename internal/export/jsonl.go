package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/claude-session/internal"
)

// JSONLExporter exports conversations in JSONL format (one record per line)
type JSONLExporter struct{}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conv *internal.FullConversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, rec := range conv.Messages {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
