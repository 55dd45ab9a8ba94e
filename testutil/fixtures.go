package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TranscriptLine describes one JSONL record for fixture transcripts.
type TranscriptLine struct {
	SessionID   string
	Type        string
	Timestamp   time.Time
	UUID        string
	ParentUUID  string
	IsSidechain bool
	Text        string
	Summary     string
}

// WriteTranscript writes a transcript fixture file containing the given lines
// and returns its path. Lines with an empty Type default to "user".
func WriteTranscript(t *testing.T, dir, name string, lines []TranscriptLine) string {
	t.Helper()

	var b strings.Builder
	for _, line := range lines {
		rec := map[string]interface{}{
			"sessionId":   line.SessionID,
			"type":        line.Type,
			"uuid":        line.UUID,
			"isSidechain": line.IsSidechain,
		}
		if line.Type == "" {
			rec["type"] = "user"
		}
		if !line.Timestamp.IsZero() {
			rec["timestamp"] = line.Timestamp.UTC().Format(time.RFC3339)
		}
		if line.ParentUUID != "" {
			rec["parentUuid"] = line.ParentUUID
		}
		if line.Summary != "" {
			rec["summary"] = line.Summary
		}
		if line.Text != "" {
			role := "user"
			if rec["type"] == "assistant" {
				role = "assistant"
			}
			rec["message"] = map[string]interface{}{
				"role":    role,
				"content": line.Text,
			}
		}
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Failed to marshal transcript line: %v", err)
		}
		b.Write(data)
		b.WriteString("\n")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write transcript %s: %v", name, err)
	}
	return path
}

// WriteRawTranscript writes a transcript fixture from raw JSONL content,
// useful for malformed-line scenarios.
func WriteRawTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write transcript %s: %v", name, err)
	}
	return path
}

// Touch sets a file's modification time, for ordering transcripts by mtime.
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", path, err)
	}
}
