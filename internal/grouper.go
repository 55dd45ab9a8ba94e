package internal

import (
	"sort"
	"time"
)

// previewMaxLen caps the preview excerpt shown in history listings.
const previewMaxLen = 100

// ConversationSummary is a lightweight view of one session for listing.
type ConversationSummary struct {
	SessionID       string    `json:"sessionId"`
	MessageCount    int       `json:"messageCount"`
	LastMessageTime time.Time `json:"lastMessageTime,omitempty"`
	Preview         string    `json:"preview,omitempty"`
}

// GroupSessions reduces parsed record sets to conversation summaries.
// MessageCount counts top-level user/assistant turns only; sidechain and
// non-turn records are excluded. Sessions with no countable turns are still
// listed with a zero count. Output is sorted most recent conversation first,
// zero-count sessions last, ties broken by session id for determinism.
func GroupSessions(sets []*SessionRecords) []ConversationSummary {
	summaries := make([]ConversationSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, summarizeSession(set))
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.LastMessageTime.Equal(b.LastMessageTime) {
			// Zero times sort after everything else.
			return a.LastMessageTime.After(b.LastMessageTime)
		}
		return a.SessionID < b.SessionID
	})
	return summaries
}

// summarizeSession computes one summary. Records are already sorted, so the
// last countable record is both the newest turn and the preview source.
func summarizeSession(set *SessionRecords) ConversationSummary {
	summary := ConversationSummary{SessionID: set.SessionID}

	var last *LogRecord
	for _, rec := range set.Records {
		if !rec.IsTopLevelTurn() {
			continue
		}
		summary.MessageCount++
		if last == nil || !rec.Timestamp.Before(last.Timestamp) {
			last = rec
		}
	}

	if last != nil {
		summary.LastMessageTime = last.Timestamp
		summary.Preview = truncatePreview(ExtractMessageText(last.Message))
	}
	return summary
}

func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewMaxLen {
		return text
	}
	return string(runes[:previewMaxLen-3]) + "..."
}
