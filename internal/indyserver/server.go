// Package indyserver is the HTTP front end serving GET /1.0/identifiers/{didUrl}:
// a gorilla/mux router, request logging and recovery middleware, and
// signal-driven graceful shutdown around the resolution pipeline.
package indyserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/didindy/resolver/internal/indylog"
	"github.com/didindy/resolver/internal/indypool"
	"github.com/didindy/resolver/internal/indyresolve"
)

// Server wraps the resolution pipeline with an HTTP API.
type Server struct {
	pipeline *indyresolve.Pipeline
	registry *indypool.Registry
	config   *Config
	logger   *indylog.Logger
	server   *http.Server
}

// New builds a Server over an already-bootstrapped pipeline and registry.
func New(pipeline *indyresolve.Pipeline, registry *indypool.Registry, config *Config, logger *indylog.Logger) *Server {
	return &Server{pipeline: pipeline, registry: registry, config: config, logger: logger}
}

// Handler returns the fully wired router and middleware chain without
// binding a listener, so tests can drive it with httptest directly.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start begins serving in a background goroutine and returns immediately.
func (s *Server) Start() error {
	router := s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info("starting resolver server", map[string]interface{}{"addr": addr})

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", map[string]interface{}{"cause": err.Error()})
		}
	}()

	return nil
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/1.0/identifiers/{didUrl:.*}", s.handleResolve).Methods(http.MethodGet)

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		AllowedOrigins: []string{"*"},
	})

	var handler http.Handler = r
	handler = s.loggingMiddleware(handler)
	handler = corsMiddleware.Handler(handler)
	handler = handlers.RecoveryHandler()(handler)
	return handler
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		})
	})
}
