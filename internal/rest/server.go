// Package rest exposes the conversation entry point and a few read-only
// state views over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mira-mind/internal/mind"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server is the REST front end for one engine instance.
type Server struct {
	engine *mind.Engine
	log    zerolog.Logger
}

// NewServer wires the REST front end.
func NewServer(engine *mind.Engine, log zerolog.Logger) *Server {
	return &Server{engine: engine, log: log}
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.handleChat)
	r.Get("/state/mood", s.handleMood)
	r.Get("/state/thoughts", s.handleThoughts)
	r.Get("/state/dreams", s.handleDreams)
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type chatRequest struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == "" || req.Message == "" {
		http.Error(w, "expected {user, message}", http.StatusBadRequest)
		return
	}

	result, err := s.engine.ProcessMessage(r.Context(), req.User, req.Message)
	if err != nil {
		s.log.Error().Err(err).Str("user", req.User).Msg("conversation failed")
		http.Error(w, "engine unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleMood(w http.ResponseWriter, _ *http.Request) {
	mood, dominant := s.engine.CurrentMood()
	writeJSON(w, map[string]any{
		"mood":     mood,
		"dominant": dominant,
	})
}

func (s *Server) handleThoughts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.engine.RecentThoughts(mind.ThoughtJournalLimit))
}

func (s *Server) handleDreams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.engine.DreamLog())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
