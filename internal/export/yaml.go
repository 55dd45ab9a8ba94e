package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/claude-session/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports conversations in YAML format
type YAMLExporter struct{}

// yamlMessage flattens a record for readable YAML output.
type yamlMessage struct {
	UUID      string `yaml:"uuid"`
	Kind      string `yaml:"kind"`
	Timestamp string `yaml:"timestamp,omitempty"`
	Sidechain bool   `yaml:"sidechain,omitempty"`
	Text      string `yaml:"text,omitempty"`
}

type yamlConversation struct {
	SessionID string        `yaml:"session_id"`
	Messages  []yamlMessage `yaml:"messages"`
}

// Export exports a conversation to YAML format
func (e *YAMLExporter) Export(conv *internal.FullConversation, w io.Writer) error {
	doc := yamlConversation{SessionID: conv.SessionID}
	for _, rec := range conv.Messages {
		msg := yamlMessage{
			UUID:      rec.UUID,
			Kind:      string(rec.Kind),
			Sidechain: rec.IsSidechain,
			Text:      internal.ExtractMessageText(rec.Message),
		}
		if !rec.Timestamp.IsZero() {
			msg.Timestamp = rec.Timestamp.Format(time.RFC3339)
		}
		doc.Messages = append(doc.Messages, msg)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
