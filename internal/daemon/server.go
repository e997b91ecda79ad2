// Package daemon is the local refresh hub. Board clients connect over a unix
// socket; any change event one client sends is stamped with a sequence id
// and relayed to every client subscribed to that project.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/tablero/internal/events"
)

var ErrBroadcastFull = errors.New("broadcast channel full")

type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // guards subscription and lastPong
	closeOnce    sync.Once
}

// outbound is a queued event plus the client that sent it, which is not
// echoed its own change. from is nil for events injected with Broadcast.
type outbound struct {
	event events.Event
	from  *client
}

// Server is the refresh daemon
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan outbound
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	pingInterval     time.Duration
	staleAfter       time.Duration
	shutdownOnce     sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithMetrics records into m instead of a private Metrics
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHealthCheck sets how often clients are pinged and how long a client
// may go without a pong before it is evicted
func WithHealthCheck(ping, staleAfter time.Duration) Option {
	return func(s *Server) {
		s.pingInterval = ping
		s.staleAfter = staleAfter
	}
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer listens on socketPath, replacing a stale socket file
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan outbound, getEnvInt("TABLERO_DAEMON_BROADCAST_BUFFER", 100)),
		metrics:          NewMetrics(),
		clientBufferSize: getEnvInt("TABLERO_DAEMON_CLIENT_BUFFER", 10),
		pingInterval:     30 * time.Second,
		staleAfter:       90 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics returns the server's counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the accept, broadcast and health loops until ctx ends or
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon listening", "socket_path", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(runCtx)
	}()
	go s.broadcastLoop(runCtx)
	go s.monitorHealth(runCtx)

	select {
	case <-runCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop failed", "error", err)
		}
	}

	return s.Shutdown()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	unixListener, _ := s.listener.(*net.UnixListener)

	for {
		if ctx.Err() != nil {
			return nil
		}

		// Wake up periodically to observe cancellation
		if unixListener != nil {
			if err := unixListener.SetDeadline(time.Now().Add(time.Second)); err != nil {
				slog.Warn("failed to set listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case out := <-s.broadcast:
			event := out.event
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.BroadcastsTotal.Add(1)

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MsgEvent,
				Event:   &event,
			}

			s.mu.RLock()
			for c := range s.clients {
				if c == out.from {
					continue
				}
				c.mu.Lock()
				subscribed := c.subscription.Matches(event)
				c.mu.Unlock()

				if subscribed && !s.sendToClient(c, msg) {
					slog.Warn("client send queue full, event dropped", "seq", event.SequenceID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case events.MsgEvent:
			if msg.Event == nil {
				continue
			}
			s.metrics.EventsReceived.Add(1)
			if err := s.enqueue(outbound{event: *msg.Event, from: c}); err != nil {
				slog.Warn("dropping client event", "project_id", msg.Event.ProjectID, "error", err)
			}

		case events.MsgSubscribe:
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "project_id", msg.Subscribe.ProjectID)
			}

		case events.MsgPong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings every client and evicts those that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	ping := events.Message{Version: events.ProtocolVersion, Type: events.MsgPing}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			// Collect under the server lock, act outside it.
			s.mu.RLock()
			var live, stale []*client
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > s.staleAfter {
					stale = append(stale, c)
				} else {
					live = append(live, c)
				}
			}
			s.mu.RUnlock()

			for _, c := range stale {
				slog.Info("evicting unresponsive client")
				s.removeClient(c)
			}
			for _, c := range live {
				if !s.sendToClient(c, ping) {
					slog.Debug("failed to queue ping, client queue full")
				}
			}
		}
	}
}

// Broadcast queues an event for fan-out without blocking
func (s *Server) Broadcast(event events.Event) error {
	return s.enqueue(outbound{event: event})
}

func (s *Server) enqueue(out outbound) error {
	if s.ctx.Err() != nil {
		return net.ErrClosed
	}
	select {
	case s.broadcast <- out:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client and removes the socket.
// The broadcast channel stays open so late Broadcast calls cannot panic.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		slog.Info("daemon shutting down", "metrics", s.metrics.Snapshot())

		s.cancel()

		if s.listener != nil {
			if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
				err = fmt.Errorf("failed to close listener: %w", closeErr)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			_ = c.conn.Close()
			c.closeOnce.Do(func() {
				close(c.send)
			})
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.updateClientCount()

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.ConnectedClients.Store(int32(s.getClientCount()))
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	_ = c.conn.Close()
	c.closeOnce.Do(func() {
		close(c.send)
	})
	s.updateClientCount()
}

// sendToClient queues msg without blocking; false if the queue is full
func (s *Server) sendToClient(c *client, msg events.Message) (sent bool) {
	// A client removed concurrently has a closed send channel.
	defer func() {
		if recover() != nil {
			sent = false
		}
	}()

	select {
	case c.send <- msg:
		s.metrics.EventsSent.Add(1)
		return true
	default:
		s.metrics.EventsDropped.Add(1)
		return false
	}
}
