// Package web exposes the conversation engine over HTTP: history listing,
// conversation detail, streaming chat, and request abort.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iksnae/claude-session/internal"
)

// Server is the claude-session HTTP server.
type Server struct {
	projectsRoot string // override; "" resolves to ~/.claude/projects per request
	gateway      *internal.Gateway
	router       chi.Router
	addr         string
}

// ServerConfig holds the server's dependencies. Gateway is required; an
// empty ProjectsRoot falls back to the default location.
type ServerConfig struct {
	Addr         string
	ProjectsRoot string
	Gateway      *internal.Gateway
}

// NewServer creates a Server and sets up routing.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	s := &Server{
		projectsRoot: cfg.ProjectsRoot,
		gateway:      cfg.Gateway,
		addr:         cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server. The write timeout is generous
// because chat responses stream for as long as a turn runs.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", s.handleProjectList)
		r.Get("/projects/{project}/histories", s.handleHistories)
		r.Get("/projects/{project}/histories/{sessionID}", s.handleConversation)
		r.Post("/chat", s.handleChat)
		// chi never matches {requestID} against an empty segment, so the
		// bare forms need their own routes to report a usable error.
		r.Post("/abort", s.handleAbortMissingID)
		r.Post("/abort/", s.handleAbortMissingID)
		r.Post("/abort/{requestID}", s.handleAbort)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogDebug("Failed to encode response: %v", err)
	}
}

// writeError maps an engine error onto the HTTP error taxonomy: validation
// failures are 400, missing resources 404, and everything else (environment
// faults, storage errors, unexpected shapes) a 500 with details.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *internal.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
		return
	}

	var notFoundErr *internal.NotFoundError
	if errors.As(err, &notFoundErr) {
		msg := notFoundErr.Error()
		if notFoundErr.Resource == "conversation" {
			msg = "Conversation not found"
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
		return
	}

	internal.LogError("Request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "internal server error",
		"details": err.Error(),
	})
}
