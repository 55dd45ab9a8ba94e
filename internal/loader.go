package internal

// FullConversation is the complete, ordered, uuid-deduplicated message list
// for one session.
type FullConversation struct {
	SessionID string       `json:"sessionId"`
	Messages  []*LogRecord `json:"messages"`
}

// LoadConversation reconstructs one session's conversation from a project
// directory. Duplicate uuids can occur when a transcript is compacted and
// re-includes older entries; the copy from the newest file wins because
// files are parsed in modification-time order. A missing session yields a
// NotFoundError distinct from a missing project directory.
func LoadConversation(dir, sessionID string) (*FullConversation, error) {
	sets, err := ParseProjectDir(dir)
	if err != nil {
		return nil, err
	}

	for _, set := range sets {
		if set.SessionID == sessionID {
			return &FullConversation{
				SessionID: sessionID,
				Messages:  dedupeRecords(set.Records),
			}, nil
		}
	}
	return nil, &NotFoundError{Resource: "conversation", Key: sessionID}
}

// dedupeRecords removes duplicate uuids from an already-sorted record slice.
// For a repeated uuid the record with the highest fileSeq is kept, in the
// position where the uuid first appeared.
func dedupeRecords(records []*LogRecord) []*LogRecord {
	seen := make(map[string]int, len(records))
	deduped := make([]*LogRecord, 0, len(records))

	for _, rec := range records {
		if i, ok := seen[rec.UUID]; ok {
			if rec.fileSeq >= deduped[i].fileSeq {
				deduped[i] = rec
			}
			continue
		}
		seen[rec.UUID] = len(deduped)
		deduped = append(deduped, rec)
	}
	return deduped
}
