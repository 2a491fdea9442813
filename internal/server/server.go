// Package server owns the listening endpoint and the set of active
// control connections. It is strictly tick-driven: the embedding host
// calls Tick once per frame, and every accept and read inside it is a
// bounded poll. No goroutine of its own, no blocking I/O.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/voidwell/scenectl/internal/dispatch"
	"github.com/voidwell/scenectl/internal/observability"
	"github.com/voidwell/scenectl/internal/protocol"
)

var ErrStart = errors.New("server: start failed")

const (
	// Largest single read per poll, kept from the historical transport.
	DefaultReadChunkBytes = 65507
	// Upper bound on how long one accept or read poll may hold the tick.
	DefaultPollWindow = 500 * time.Microsecond
)

// Options tune per-tick polling behavior.
type Options struct {
	ReadChunkBytes int
	PollWindow     time.Duration
	Limits         protocol.Limits
}

func (o Options) withDefaults() Options {
	if o.ReadChunkBytes <= 0 {
		o.ReadChunkBytes = DefaultReadChunkBytes
	}
	if o.PollWindow <= 0 {
		o.PollWindow = DefaultPollWindow
	}
	if o.Limits.MaxBufferBytes <= 0 {
		o.Limits = protocol.DefaultLimits()
	}
	return o
}

type connection struct {
	c      net.Conn
	buf    *protocol.Buffer
	remote string
	chunk  []byte
}

// Status is a read-only snapshot safe to take from other goroutines
// (the admin surface reads it while the tick goroutine runs).
type Status struct {
	Listening   bool   `json:"listening"`
	Port        int    `json:"port"`
	Connections int    `json:"connections"`
	Ticks       uint64 `json:"ticks"`
}

// Server is the per-process control endpoint. Construct one, hand it to
// whatever drives the host frame, and call Start/Tick/Stop from that
// single goroutine only.
type Server struct {
	opts       Options
	log        zerolog.Logger
	dispatcher *dispatch.Dispatcher

	ln    *net.TCPListener
	conns []*connection

	listening atomic.Bool
	port      atomic.Int64
	connCount atomic.Int64
	ticks     atomic.Uint64
}

func New(d *dispatch.Dispatcher, opts Options, log zerolog.Logger) *Server {
	return &Server{
		opts:       opts.withDefaults(),
		log:        log,
		dispatcher: d,
	}
}

// Start binds all interfaces on port and begins listening. Calling it
// while already listening is an idempotent success. A failed Start
// leaves no partially-initialized state.
func (s *Server) Start(port uint16) error {
	if s.ln != nil {
		s.log.Warn().Int("port", s.boundPort()).Msg("control server already running")
		return nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("%w: port %d: %s", ErrStart, port, err)
	}

	s.ln = ln.(*net.TCPListener)
	s.listening.Store(true)
	s.port.Store(int64(s.boundPort()))
	s.log.Info().Int("port", s.boundPort()).Msg("control server listening")
	return nil
}

// Stop closes every active connection and releases the listening
// endpoint. Idempotent, and safe to call even if Start never succeeded.
func (s *Server) Stop() {
	for _, cn := range s.conns {
		_ = cn.c.Close()
		observability.ConnectionClosed()
	}
	s.conns = nil
	s.connCount.Store(0)

	if s.ln != nil {
		_ = s.ln.Close()
		s.ln = nil
		s.log.Info().Msg("control server stopped")
	}
	s.listening.Store(false)
	s.port.Store(0)
}

// Tick performs one non-blocking accept attempt and one non-blocking
// drain per connection, in connection-list order. It never blocks
// beyond the configured poll windows and never propagates errors; a
// failing connection is closed and removed within the same tick.
func (s *Server) Tick() {
	if s.ln == nil {
		return
	}
	s.ticks.Add(1)
	s.acceptPending()
	s.pollConnections()
}

// Addr reports the bound listen address while running.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Status snapshots observable state for the admin surface.
func (s *Server) Status() Status {
	return Status{
		Listening:   s.listening.Load(),
		Port:        int(s.port.Load()),
		Connections: int(s.connCount.Load()),
		Ticks:       s.ticks.Load(),
	}
}

func (s *Server) boundPort() int {
	if s.ln == nil {
		return 0
	}
	if addr, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

func (s *Server) acceptPending() {
	_ = s.ln.SetDeadline(time.Now().Add(s.opts.PollWindow))
	c, err := s.ln.Accept()
	if err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) && !errors.Is(err, net.ErrClosed) {
			s.log.Warn().Err(err).Msg("accept failed")
		}
		return
	}

	cn := &connection{
		c:      c,
		buf:    protocol.NewBuffer(s.opts.Limits),
		remote: c.RemoteAddr().String(),
		chunk:  make([]byte, s.opts.ReadChunkBytes),
	}
	s.conns = append(s.conns, cn)
	s.connCount.Add(1)
	observability.ConnectionOpened()
	s.log.Info().Str("remote", cn.remote).Msg("client connected")
}

func (s *Server) pollConnections() {
	live := s.conns[:0]
	for _, cn := range s.conns {
		if s.pollConnection(cn) {
			live = append(live, cn)
			continue
		}
		_ = cn.c.Close()
		s.connCount.Add(-1)
		observability.ConnectionClosed()
		s.log.Info().Str("remote", cn.remote).Msg("client disconnected")
	}
	for i := len(live); i < len(s.conns); i++ {
		s.conns[i] = nil
	}
	s.conns = live
}

// pollConnection drains readable data into the connection's framing
// buffer and dispatches every complete message. Returns false when the
// transport reports the peer gone.
func (s *Server) pollConnection(cn *connection) bool {
	alive := true
	for {
		_ = cn.c.SetReadDeadline(time.Now().Add(s.opts.PollWindow))
		n, err := cn.c.Read(cn.chunk)
		if n > 0 {
			observability.RecordBytesReceived(n)
			if aerr := cn.buf.Append(cn.chunk[:n]); aerr != nil {
				s.log.Warn().Str("remote", cn.remote).Err(aerr).Msg("receive buffer dropped")
			}
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				break
			}
			alive = false
			break
		}
	}

	for {
		doc, ok, err := cn.buf.Next()
		if err != nil {
			s.log.Warn().Str("remote", cn.remote).Err(err).Msg("discarding undecodable bytes")
			continue
		}
		if !ok {
			break
		}
		s.handleMessage(cn, doc)
	}
	return alive
}

func (s *Server) handleMessage(cn *connection, doc []byte) {
	cmd, err := protocol.Parse(doc)
	if err != nil {
		s.log.Warn().Str("remote", cn.remote).Err(err).Msg("discarding malformed command")
		return
	}
	res := s.dispatcher.Dispatch(cmd)

	// keep the intent label bounded to registered names
	intentLabel := cmd.Intent
	if _, ok := s.dispatcher.Registry().Resolve(cmd.Intent); !ok {
		intentLabel = "unknown"
	}
	observability.RecordCommand(intentLabel, res.Outcome)
}
