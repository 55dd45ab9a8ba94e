package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/claude-session/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.FullConversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", conv.SessionID)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	first := true
	for _, rec := range conv.Messages {
		text := internal.ExtractMessageText(rec.Message)
		if text == "" {
			continue
		}

		if !first {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
		first = false

		timestamp := ""
		if !rec.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", rec.Timestamp.Format(time.RFC3339))
		}
		label := string(rec.Kind)
		if rec.IsSidechain {
			label += " [sidechain]"
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", label, timestamp, escapeMarkdown(text))
	}
	return nil
}

// escapeMarkdown escapes emphasis markers outside code fences.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
