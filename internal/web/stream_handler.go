package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/iksnae/claude-session/internal"
)

// maxChatBodyBytes caps the chat request body; prompts and tool results are
// small compared to this.
const maxChatBodyBytes = 1 << 20

// handleChat runs one streaming chat turn. The response is NDJSON: one JSON
// event per line, ending with a done event on success. Errors after the
// first byte has been streamed are reported as in-stream error events, not
// HTTP status codes.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req internal.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Message == "" && len(req.ToolResults) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Request-Id", req.RequestID)
	w.WriteHeader(http.StatusOK)

	ew := internal.NewEventWriter(w)
	if err := s.gateway.Stream(r.Context(), req, ew); err != nil {
		// Nothing was streamed yet; the failure becomes the only event.
		internal.LogWarn("Chat request %s failed to start: %v", req.RequestID, err)
		ew.WriteError(err.Error())
	}
}
