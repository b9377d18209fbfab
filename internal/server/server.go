// Package server provides the HTTP serving snapshot for graphmount. A
// Server owns private copies of the operation catalog and access-point
// registry, frozen at build time: configuration code may keep mutating
// the originals without affecting a running server.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/graphmount/graphmount/pkg/dispatch"
	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/logging"
	"github.com/graphmount/graphmount/pkg/mount"
)

// Server holds the frozen serving state and the HTTP listener.
type Server struct {
	config     Config
	logger     *zerolog.Logger
	catalog    *mount.Catalog
	registry   *mount.Registry
	dispatcher *dispatch.Dispatcher
	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time
}

// New builds a server from a catalog and registry. This is the freeze
// step: both structures are copied so later mutation of the caller's
// instances cannot leak into the running server, and every data service
// is activated. A lifecycle or validation failure aborts the build.
func New(catalog *mount.Catalog, registry *mount.Registry, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Port < 0 {
		return nil, errors.NewConfigError("set port", fmt.Sprintf("%d", cfg.Port), errors.ErrInvalidName)
	}

	// Freeze: private snapshots, isolated from the caller's copies.
	frozenCatalog := mount.NewCatalogFrom(catalog)
	frozenRegistry := mount.NewRegistryFrom(registry)

	// An endpoint bound to an operation without a handler is a build
	// error, not a request-time 500.
	var validateErr error
	frozenRegistry.ForEach(func(name string, ap *mount.AccessPoint) {
		for _, ep := range ap.Service().Endpoints() {
			if !frozenCatalog.IsRegistered(ep.Operation) && validateErr == nil {
				validateErr = errors.NewConfigError("bind endpoint", name+"/"+ep.Name,
					fmt.Errorf("operation %q: %w", ep.Operation.ID(), errors.ErrNotFound))
			}
		}
	})
	if validateErr != nil {
		return nil, validateErr
	}

	var activateErr error
	frozenRegistry.ForEach(func(name string, ap *mount.AccessPoint) {
		if err := ap.Service().GoActive(); err != nil && activateErr == nil {
			activateErr = errors.NewConfigError("activate dataset", name, err)
		}
	})
	if activateErr != nil {
		return nil, activateErr
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		catalog:   frozenCatalog,
		registry:  frozenRegistry,
		startTime: time.Now(),
	}

	s.dispatcher = dispatch.New(frozenRegistry, frozenCatalog, logger,
		dispatch.WithErrorWriter(dispatchErrorWriter))

	host := cfg.Host
	if cfg.Loopback {
		host = "localhost"
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, cfg.Port),
		Handler:      s.setupRouter(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// Start listens and serves until Shutdown or a listener error. It blocks;
// run it in a goroutine for a background server. With Port 0 the actual
// port is available from Addr once Start has been called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.WrapResource("listen", "server", s.httpServer.Addr, err)
	}
	s.listener = ln

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("datasets", s.registry.Len()).
		Msg("Server started")

	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Addr returns the listener address, or the configured address before
// Start has been called.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Handler returns the configured http.Handler with middleware applied.
// Useful for tests and for embedding in an existing server.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the server's frozen access-point registry for
// inspection.
func (s *Server) Registry() *mount.Registry {
	return s.registry
}

// Counters returns the dispatcher's invocation counters.
func (s *Server) Counters() *dispatch.Counters {
	return s.dispatcher.Counters()
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

// Shutdown stops the HTTP server and closes every data service,
// releasing the underlying datasets.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")

	var firstErr error
	if s.listener != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}

	s.registry.ForEach(func(name string, ap *mount.AccessPoint) {
		if err := ap.Service().Close(); err != nil {
			s.logger.Error().Err(err).Str("dataset", name).Msg("Failed to close dataset")
			if firstErr == nil {
				firstErr = err
			}
		}
	})

	return firstErr
}
