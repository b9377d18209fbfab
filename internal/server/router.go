package server

import (
	"net/http"
	"time"

	"github.com/graphmount/graphmount/internal/server/middleware"
	"github.com/graphmount/graphmount/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if s.config.EnablePing {
		mux.HandleFunc("/$/ping", s.handlePing)
	}
	if s.config.EnableStats {
		mux.HandleFunc("/$/stats", s.handleStats)
	}

	// Everything else is dataset dispatch.
	mux.Handle("/", s.dispatcher)

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(mux)
}

// handlePing responds cheaply so load balancers can probe liveness.
func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(time.Now().UTC().Format(time.RFC3339) + "\n"))
}

// handleStats reports the per-dataset, per-operation invocation counters.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"datasets":       s.dispatcher.Counters().Snapshot(),
	})
}

// dispatchErrorWriter adapts the response envelope to the dispatcher.
func dispatchErrorWriter(w http.ResponseWriter, status int, err error) {
	response.DispatchError(w, status, err)
}
