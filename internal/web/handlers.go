package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iksnae/claude-session/internal"
)

// ProjectInfo is one entry of the project listing. Path is a lossy decoding
// of the directory name, intended only for display.
type ProjectInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// handleProjectList returns the project directories under the projects root.
func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	root, err := internal.ProjectsRoot(s.projectsRoot)
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := internal.ListProjectTokens(root)
	if err != nil {
		writeError(w, err)
		return
	}

	projects := make([]ProjectInfo, 0, len(tokens))
	for _, token := range tokens {
		projects = append(projects, ProjectInfo{
			Name: token,
			Path: internal.DecodeProjectToken(token),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleHistories lists conversation summaries for one project.
func (s *Server) handleHistories(w http.ResponseWriter, r *http.Request) {
	dir, ok := s.resolveProject(w, r)
	if !ok {
		return
	}

	sets, err := internal.ParseProjectDir(dir)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := internal.GroupSessions(sets)
	writeJSON(w, http.StatusOK, map[string]any{"conversations": summaries})
}

// handleConversation returns one full conversation.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	dir, ok := s.resolveProject(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	conv, err := internal.LoadConversation(dir, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// handleAbort cancels an in-flight streaming request by id.
func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if !s.gateway.Registry().Abort(requestID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Request not found or already completed"})
		return
	}

	internal.LogInfo("Aborted request %s", requestID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Request aborted"})
}

// handleAbortMissingID answers abort calls that omit the request id.
func (s *Server) handleAbortMissingID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Request ID is required"})
}

// resolveProject validates the project token from the URL and resolves it to
// a transcript directory, writing the error response itself on failure.
func (s *Server) resolveProject(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := chi.URLParam(r, "project")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Project token is required"})
		return "", false
	}

	root, err := internal.ProjectsRoot(s.projectsRoot)
	if err != nil {
		writeError(w, err)
		return "", false
	}

	dir, err := internal.ResolveProjectDir(root, token)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return dir, true
}
