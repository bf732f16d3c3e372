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

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/cmap"
	"github.com/yndnr/respkv/pkg/resp"
)

// ErrServerClosed is returned by Start after Shutdown has been called.
var ErrServerClosed = errors.New("redisserver: server closed")

// Accept retry backoff bounds.
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Config holds the Redis server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// WriteTimeout bounds writing a single reply. Zero disables it.
	WriteTimeout time.Duration
	// RateLimit is the maximum number of commands per second per client IP.
	// Zero disables rate limiting.
	RateLimit int
	// MaxBulkLen caps a single bulk string in a request.
	MaxBulkLen int64
	// MaxArrayLen caps the element count of a request array.
	MaxArrayLen int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		IdleTimeout:  0,
		WriteTimeout: 30 * time.Second,
		RateLimit:    0,
		MaxBulkLen:   resp.DefaultMaxBulkLen,
		MaxArrayLen:  resp.DefaultMaxArrayLen,
	}
}

// Store is the key-value store the server dispatches to.
type Store interface {
	Set(key, value string)
	SetWithExpiry(key, value string, ttl time.Duration)
	Get(key string) (string, bool)
}

// Server represents the Redis protocol server.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	logger  logger.Logger
	metrics *metric.Registry

	mu      sync.Mutex
	ln      net.Listener
	running atomic.Bool
	closed  atomic.Bool

	conns *cmap.Map[*Conn]
	wg    sync.WaitGroup
}

// Conn represents a single Redis client connection.
type Conn struct {
	id      string
	netConn net.Conn
	rd      *resp.Reader
	wr      *resp.Writer

	closed atomic.Bool
}

func newConn(c net.Conn, opts ...resp.ReaderOption) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		rd:      resp.NewReader(c, opts...),
		wr:      resp.NewWriter(c),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the underlying network connection. It is safe to call
// more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a new Redis protocol server backed by store.
func New(cfg *Config, store Store, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Default(),
		conns:  cmap.New[*Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "redis")
	s.handler = NewCommandHandler(store, cfg.RateLimit, s.logger)

	return s
}

// Start listens on the configured address and serves connections in the
// background. It returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	if err := s.setListener(ln); err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("redis server stopped", "error", err)
		}
	}()
	return nil
}

// Serve accepts connections on ln until ln is closed or Shutdown is called.
// It blocks; the caller owns ln until Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.setListener(ln); err != nil {
		return err
	}
	s.wg.Add(1)
	defer s.wg.Done()
	return s.acceptLoop(ctx, ln)
}

func (s *Server) setListener(ln net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrServerClosed
	}
	s.ln = ln
	s.running.Store(true)
	return nil
}

// Addr returns the listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ActiveConns returns the number of open client connections.
func (s *Server) ActiveConns() int {
	return s.conns.Count()
}

// Shutdown stops accepting, closes every live connection and waits for the
// connection goroutines to exit or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed.Store(true)
	s.running.Store(false)
	ln := s.ln
	s.mu.Unlock()

	var firstErr error
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	for _, c := range s.conns.Snapshot() {
		_ = c.Close()
	}

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

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer s.running.Store(false)

	var backoff time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.logger.Warn("accept failed", "error", err, "retry_in", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0

		conn := newConn(c,
			resp.WithMaxBulkLen(s.cfg.MaxBulkLen),
			resp.WithMaxArrayLen(s.cfg.MaxArrayLen),
		)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

// serveConn runs the request loop of one connection until it ends.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	s.conns.Set(c.id, c)
	s.metrics.ConnOpened()
	defer func() {
		_ = c.Close()
		s.conns.Delete(c.id)
		s.metrics.ConnClosed()
	}()

	// A connection registered after Shutdown swept the registry.
	if s.closed.Load() {
		return
	}

	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.id)
	log := s.logger.With("conn_id", c.id, "remote", c.RemoteAddr().String())
	log.Info("client connected")

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		v, err := c.rd.ReadValue()
		if err != nil {
			s.readFailed(log, c, err)
			return
		}

		cmd, err := resp.ParseCommand(v)
		if err != nil {
			log.Warn("malformed command, closing connection", "error", err)
			s.metrics.RecordConnError("malformed_command")
			return
		}

		start := time.Now()
		reply, err := s.handler.Handle(ctx, c, cmd)
		s.metrics.RecordCommand(commandLabel(cmd), time.Since(start))
		if err != nil {
			log.Warn("invalid command, closing connection", "command", cmd.Name, "error", err)
			s.metrics.RecordConnError("invalid_argument")
			return
		}

		if s.cfg.WriteTimeout > 0 {
			if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				return
			}
		}
		if err := c.wr.WriteValue(reply); err != nil {
			if errors.Is(err, resp.ErrInvalidValue) {
				log.Error("unencodable reply, closing connection", "command", cmd.Name, "error", err)
			} else {
				log.Debug("write failed", "error", err)
			}
			s.metrics.RecordConnError("write")
			return
		}
	}
}

// readFailed logs why reading from c ended and counts it.
func (s *Server) readFailed(log logger.Logger, c *Conn, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		log.Info("client disconnected")
	case c.closed.Load() || errors.Is(err, net.ErrClosed):
		log.Debug("connection closed by server")
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Info("idle timeout, closing connection")
		s.metrics.RecordConnError("idle_timeout")
	case errors.Is(err, resp.ErrLimitExceeded):
		log.Warn("protocol limit exceeded, closing connection", "error", err)
		s.metrics.RecordConnError("limit_exceeded")
	case errors.Is(err, resp.ErrProtocol):
		log.Warn("protocol error, closing connection", "error", err)
		s.metrics.RecordConnError("protocol")
	default:
		log.Debug("connection read error", "error", err)
		s.metrics.RecordConnError("read")
	}
}
