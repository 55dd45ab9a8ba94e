package web

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iksnae/claude-session/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeStream(t *testing.T, body *bytes.Buffer) []internal.StreamEvent {
	t.Helper()
	var events []internal.StreamEvent
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var ev internal.StreamEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}
	return events
}

func TestChatInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := postChat(t, srv, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatMissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := postChat(t, srv, `{"requestId":"req-1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"message is required"}`, rec.Body.String())
}

func TestChatStreamsTurnToDone(t *testing.T) {
	turn := newFakeTurn(t,
		`{"type":"system","subtype":"init","session_id":"sess-1"}`,
		`{"type":"assistant","session_id":"sess-1","message":{"role":"assistant","content":[{"type":"text","text":"working"}]}}`,
		`{"type":"result","session_id":"sess-1","result":"finished"}`,
	)
	srv, _ := newTestServer(t, &fakeRunner{turn: turn})

	rec := postChat(t, srv, `{"requestId":"req-1","message":"do the thing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	events := decodeStream(t, rec.Body)
	require.Len(t, events, 4)
	for _, ev := range events[:3] {
		assert.Equal(t, internal.EventClaudeJSON, ev.Type)
	}
	assert.Equal(t, internal.EventDone, events[3].Type)

	// The relayed payload is the raw agent line, untouched.
	var payload map[string]any
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	assert.Equal(t, "system", payload["type"])
}

func TestChatGeneratesRequestID(t *testing.T) {
	turn := newFakeTurn(t, `{"type":"result","session_id":"sess-1","result":"ok"}`)
	srv, _ := newTestServer(t, &fakeRunner{turn: turn})

	rec := postChat(t, srv, `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestChatToolResultsWithoutPendingQuestion(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := `{"requestId":"req-1","sessionId":"sess-x","toolResults":[{"tool_use_id":"toolu_1","content":"answer"}]}`
	rec := postChat(t, srv, body)

	// Streaming headers are already committed; the failure arrives in-stream.
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeStream(t, rec.Body)
	require.Len(t, events, 1)
	assert.Equal(t, internal.EventError, events[0].Type)
	assert.Contains(t, events[0].Error, "pending question")
}

func TestChatQuestionPausesStream(t *testing.T) {
	question := `{"type":"assistant","session_id":"sess-1","message":{"role":"assistant","content":[{"type":"tool_use","id":"toolu_1","name":"AskUserQuestion","input":{"question":"Proceed?"}}]}}`
	turn := newFakeTurn(t, question)
	srv, _ := newTestServer(t, &fakeRunner{turn: turn})

	rec := postChat(t, srv, `{"requestId":"req-1","message":"start"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	events := decodeStream(t, rec.Body)
	require.Len(t, events, 1)
	assert.Equal(t, internal.EventClaudeJSON, events[0].Type)
	assert.Equal(t, 1, srv.gateway.PendingQuestions())
}
