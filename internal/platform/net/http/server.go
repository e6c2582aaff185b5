// Package http wraps chi and the stdlib server behind a small surface
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"rolelink/internal/platform/config"
	"rolelink/internal/platform/logger"
	"rolelink/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer creates a server with the default middleware stack mounted
// cfg is the service-scoped config view (reads PORT, CORS_ORIGINS)
func NewServer(cfg config.Conf) *Server {
	addr := cfg.MustPort("PORT")
	m := chi.NewRouter()
	for _, mw := range middleware.Defaults() {
		m.Use(mw)
	}
	m.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
	}))
	m.Use(middleware.Heartbeat("/healthz"))
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Mux exposes the underlying chi mux so callers can mount routes
func (s *Server) Mux() *chi.Mux { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run starts the server and blocks until the context is done or the listener fails
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.addr).Msg("http listening")

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutCtx)
	case err := <-errCh:
		if err == stdhttp.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
