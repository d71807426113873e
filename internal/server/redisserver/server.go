package redisserver

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/snapkv/internal/core/service"
	"github.com/yndnr/snapkv/internal/telemetry/logger"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// Password enables AUTH when non-empty.
	Password string
	// RateLimit is the maximum commands per second per client IP (0 = off).
	RateLimit int
	// ReadTimeout bounds reading one command once its first byte arrived.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing one reply.
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait between commands.
	IdleTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:6380",
		RateLimit:    1000,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
}

// Server is the RESP protocol server.
type Server struct {
	cfg     Config
	handler *CommandHandler
	log     logger.Logger

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// Conn is one client connection.
type Conn struct {
	id      string
	netConn net.Conn
	r       *Reader
	w       *Writer

	authenticated bool
	closed        atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		r:       NewReader(c),
		w:       NewWriter(c),
	}
}

// ID returns the connection ULID.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a RESP server for db.
func New(cfg Config, db *service.Database, log logger.Logger) *Server {
	cfg.applyDefaults()
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "redis")

	return &Server{
		cfg:     cfg,
		handler: NewCommandHandler(db, cfg.Password, cfg.RateLimit),
		log:     log,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start binds the listen address and accepts connections in the
// background. A bind failure is returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)
	s.log.Info("redis server listening", "address", ln.Addr().String(), "auth", s.cfg.Password != "")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.log.Error("redis accept loop stopped", "error", err)
		}
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

// Shutdown stops accepting, closes open connections and waits for their
// goroutines until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	err := s.ln.Close()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.log.Info("redis server stopped")
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := newConn(nc)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// serveConn runs the command loop for c until the client leaves, a
// deadline passes or a protocol error occurs. c is closed on return.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer s.handler.Release()
	defer c.Close()

	log := s.log.With("conn_id", c.ID(), "remote", c.RemoteAddr().String())
	ctx = logger.WithLogger(ctx, log)
	log.Debug("connection opened")
	defer log.Debug("connection closed")

	for {
		// Between commands the connection may idle.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return
		}
		if err := c.r.Wait(); err != nil {
			s.logReadError(log, err)
			return
		}

		// Once a command started it must arrive within ReadTimeout.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}

		args, err := c.r.ReadCommand()
		if err != nil {
			if errors.Is(err, ErrLimitExceeded) || errors.Is(err, ErrProtocol) {
				log.Warn("protocol error", "error", err)
				_ = c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
				_ = c.w.Error("ERR " + err.Error())
				_ = c.w.Flush()
				return
			}
			s.logReadError(log, err)
			return
		}
		if len(args) == 0 {
			continue
		}

		quit := s.handler.Handle(ctx, c, args)

		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return
		}
		if err := c.w.Flush(); err != nil {
			return
		}
		if quit {
			return
		}
	}
}

func (s *Server) logReadError(log logger.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out")
	default:
		log.Debug("connection read error", "error", err)
	}
}
