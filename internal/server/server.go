package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/voxelphys/internal/config"
	"github.com/zeusync/voxelphys/internal/core/observability/log"
	"github.com/zeusync/voxelphys/internal/core/scene"
)

// Server streams scene frames to websocket clients and accepts velocity
// input from them.
type Server struct {
	config config.ServerConfig
	scene  *scene.Scene
	hello  Hello
	logger log.Log

	// Client management
	mu          sync.Mutex
	clients     map[*client]struct{}
	clientCount atomic.Int64

	// Server state
	running  atomic.Bool
	listener net.Listener
	http     *http.Server

	framesSent     atomic.Uint64
	clientsDropped atomic.Uint64
}

// NewServer creates a server for sc. It must be registered as a frame sink
// of sc to receive frames.
func NewServer(cfg config.ServerConfig, sc *scene.Scene, hello Hello, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	hello.Type = TypeHello

	s := &Server{
		config:  cfg,
		scene:   sc,
		hello:   hello,
		logger:  logger.With(log.String("component", "server")),
		clients: make(map[*client]struct{}),
	}

	s.logger.Info("Server created",
		log.String("listen_addr", cfg.ListenAddr),
		log.Int("max_clients", cfg.MaxClients))

	return s
}

// Handler serves /ws and /frame.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/frame", s.handleFrame)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address while running.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")
	err := s.http.Shutdown(ctx)

	// hijacked websocket connections are not tracked by Shutdown
	s.mu.Lock()
	for c := range s.clients {
		s.dropLocked(c)
	}
	s.mu.Unlock()

	s.logger.Info("Server stopped",
		log.Uint64("frames_sent", s.framesSent.Load()),
		log.Uint64("clients_dropped", s.clientsDropped.Load()))
	return err
}

// Run starts the server and stops it once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	timeout := s.config.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Stop(stopCtx)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int { return int(s.clientCount.Load()) }

// PushFrame queues frame for every client. Clients whose queue is full are
// disconnected.
func (s *Server) PushFrame(frame scene.Frame) {
	payload, err := json.Marshal(FrameMessage{Type: TypeFrame, Frame: frame})
	if err != nil {
		s.logger.Error("Failed to encode frame", log.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- payload:
			s.framesSent.Add(1)
		default:
			c.logger.Warn("Client too slow, disconnecting")
			s.clientsDropped.Add(1)
			s.dropLocked(c)
		}
	}
}

func (s *Server) register(c *client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) >= s.config.MaxClients {
		return ErrMaxClientsReached
	}
	s.clients[c] = struct{}{}
	s.clientCount.Add(1)
	return nil
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(c)
}

// dropLocked removes c and closes its queue, which ends its write loop.
func (s *Server) dropLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.clientCount.Add(-1)
}

// reply queues a message for c alone.
func (s *Server) reply(c *client, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to encode reply", log.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("Reply dropped, client queue full")
	}
}
