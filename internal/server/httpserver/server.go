package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/snapkv/internal/telemetry/logger"
)

// Server is the HTTP server.
type Server struct {
	httpServer *http.Server
	ln         net.Listener
	log        logger.Logger
	errCh      chan error
}

// New creates an HTTP server for handler on addr.
func New(addr string, handler http.Handler, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          slog.NewLogLogger(log.Slog().Handler(), slog.LevelWarn),
		},
		log:   log.With("component", "http"),
		errCh: make(chan error, 1),
	}
}

// Start binds the address and serves in the background. A bind failure is
// returned synchronously; later serve errors are reported by Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info("http server listening", "address", ln.Addr().String())

	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.errCh <- err
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Err delivers the result of the serve loop once it stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}
