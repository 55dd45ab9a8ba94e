package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecordKind classifies a transcript line. The set is closed: anything the
// current tooling does not understand parses as KindUnknown so newer
// assistant versions cannot break history browsing.
type RecordKind string

const (
	KindUser       RecordKind = "user"
	KindAssistant  RecordKind = "assistant"
	KindSystem     RecordKind = "system"
	KindSummary    RecordKind = "summary"
	KindToolUse    RecordKind = "tool_use"
	KindToolResult RecordKind = "tool_result"
	KindUnknown    RecordKind = "unknown"
)

// knownKinds maps the raw "type" field to a RecordKind.
var knownKinds = map[string]RecordKind{
	"user":        KindUser,
	"assistant":   KindAssistant,
	"system":      KindSystem,
	"summary":     KindSummary,
	"tool_use":    KindToolUse,
	"tool_result": KindToolResult,
}

// LogRecord is one parsed line from a transcript log file.
type LogRecord struct {
	SessionID   string          `json:"sessionId"`
	Kind        RecordKind      `json:"type"`
	RawKind     string          `json:"-"` // original type value, kept for unknown kinds
	Timestamp   time.Time       `json:"timestamp"`
	UUID        string          `json:"uuid"`
	ParentUUID  *string         `json:"parentUuid"`
	IsSidechain bool            `json:"isSidechain"`
	Message     json.RawMessage `json:"message,omitempty"`
	CWD         string          `json:"cwd,omitempty"`
	Version     string          `json:"version,omitempty"`
	GitBranch   string          `json:"gitBranch,omitempty"`
	RequestID   string          `json:"requestId,omitempty"`

	// Position of the line on disk, used as the deterministic tie-break when
	// timestamps collide. File indexes are assigned in mtime order.
	fileSeq int
	lineSeq int
}

// rawLogRecord is the wire shape of one JSONL line.
type rawLogRecord struct {
	SessionID   string          `json:"sessionId"`
	Type        string          `json:"type"`
	Timestamp   string          `json:"timestamp"`
	UUID        string          `json:"uuid"`
	ParentUUID  *string         `json:"parentUuid"`
	IsSidechain bool            `json:"isSidechain"`
	Message     json.RawMessage `json:"message"`
	Summary     string          `json:"summary"`
	CWD         string          `json:"cwd"`
	Version     string          `json:"version"`
	GitBranch   string          `json:"gitBranch"`
	RequestID   string          `json:"requestId"`
}

// ParseLogLine parses one transcript line into a LogRecord. A line with no
// sessionId or uuid is rejected; an unrecognized type is not.
func ParseLogLine(line []byte) (*LogRecord, error) {
	var raw rawLogRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse record JSON: %w", err)
	}
	if raw.SessionID == "" {
		return nil, fmt.Errorf("record has no sessionId")
	}
	if raw.UUID == "" {
		return nil, fmt.Errorf("record has no uuid")
	}

	kind, ok := knownKinds[raw.Type]
	if !ok {
		kind = KindUnknown
	}

	rec := &LogRecord{
		SessionID:   raw.SessionID,
		Kind:        kind,
		RawKind:     raw.Type,
		UUID:        raw.UUID,
		ParentUUID:  raw.ParentUUID,
		IsSidechain: raw.IsSidechain,
		Message:     raw.Message,
		CWD:         raw.CWD,
		Version:     raw.Version,
		GitBranch:   raw.GitBranch,
		RequestID:   raw.RequestID,
	}

	// Summary records carry their text in a top-level field, not a message.
	if kind == KindSummary && len(rec.Message) == 0 && raw.Summary != "" {
		rec.Message = json.RawMessage(fmt.Sprintf("%q", raw.Summary))
	}

	if raw.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, raw.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", raw.Timestamp, err)
		}
		rec.Timestamp = t
	}

	return rec, nil
}

// IsTopLevelTurn reports whether the record counts as a top-level
// conversation turn: a user or assistant message outside any sidechain.
func (r *LogRecord) IsTopLevelTurn() bool {
	if r.IsSidechain {
		return false
	}
	return r.Kind == KindUser || r.Kind == KindAssistant
}

// messageEnvelope is the subset of the message payload needed for text
// extraction. Content is either a plain string or an array of content blocks.
type messageEnvelope struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"` // tool_use blocks
}

// ExtractMessageText pulls displayable text out of a record's message
// payload. Plain-string content is returned as is; block content
// concatenates text blocks and renders tool invocations as "[Tool: name]".
// Records with no extractable text yield "".
func ExtractMessageText(message json.RawMessage) string {
	if len(message) == 0 {
		return ""
	}

	// Summary records store a bare string.
	var plain string
	if err := json.Unmarshal(message, &plain); err == nil {
		return plain
	}

	var env messageEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return ""
	}
	if len(env.Content) == 0 {
		return ""
	}

	if err := json.Unmarshal(env.Content, &plain); err == nil {
		return plain
	}

	var blocks []contentBlock
	if err := json.Unmarshal(env.Content, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		case "tool_use":
			if b.Name != "" {
				parts = append(parts, fmt.Sprintf("[Tool: %s]", b.Name))
			}
		}
	}
	return strings.Join(parts, "\n")
}
