package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"trisearch/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Server exposes agents over HTTP. Every request searches its own copy of the posted state.
type Server struct {
	agents map[string]Agent
	names  []string
	router chi.Router
}

type MoveResponse struct {
	From     game.Position `json:"from"`
	To       game.Position `json:"to"`
	Strategy string        `json:"strategy"`
	Millis   int64         `json:"millis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewServer(agents []Agent) (*Server, error) {
	s := &Server{agents: make(map[string]Agent, len(agents))}
	for _, a := range agents {
		if _, ok := s.agents[a.Name()]; ok {
			return nil, errors.Errorf("duplicate agent name %q", a.Name())
		}
		s.agents[a.Name()] = a
		s.names = append(s.names, a.Name())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Get("/agents", s.handleAgents)
	r.Post("/agents/{name}/move", s.handleMove)
	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Strs("agents", s.names).Msg("agent server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "agent server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down agent server")
	}
	log.Info().Msg("agent server stopped")
	return nil
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.names)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	a, ok := s.agents[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown agent "+name)
		return
	}

	var state game.RingState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := state.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := a.FindMove(&state)
	if !d.Found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{
		From:     d.Move.From,
		To:       d.Move.To,
		Strategy: d.Metric.Strategy,
		Millis:   d.Metric.Duration.Milliseconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
