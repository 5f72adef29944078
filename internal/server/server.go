// Package server exposes the resolver pipeline over a small local HTTP API
// for the playback surface: resolve a stream, poll prefetch progress, and
// clear the cache.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/models"
	"github.com/hlsgate/hlsgate/internal/progress"
)

// StreamResolver is the resolving surface the server fronts.
type StreamResolver interface {
	Resolve(ctx context.Context, rawURL, provider string) models.StreamSource
	ClearCache() error
}

// Server holds the handler dependencies.
type Server struct {
	resolver StreamResolver
	notifier *progress.Notifier
}

// New creates a Server around the given resolver and progress notifier.
func New(resolver StreamResolver, notifier *progress.Notifier) *Server {
	return &Server{resolver: resolver, notifier: notifier}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resolve", s.handleResolve)
	mux.HandleFunc("GET /progress", s.handleProgress)
	mux.HandleFunc("POST /cache/clear", s.handleClearCache)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	provider := r.URL.Query().Get("provider")

	src := s.resolver.Resolve(r.Context(), rawURL, provider)
	writeJSON(w, src)
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.notifier.Current())
}

func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	if err := s.resolver.ClearCache(); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Cache clear failed")
		sentry.CaptureException(err)
		http.Error(w, "cache clear failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
