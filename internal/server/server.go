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

	"github.com/zeusync/bumparena/internal/core/host"
	"github.com/zeusync/bumparena/internal/core/observability/log"
)

// Controller receives commands sent by connected clients.
type Controller interface {
	Submit(cmd host.Command) error
}

// Server streams simulation frames to websocket clients and forwards their
// commands to a Controller.
type Server struct {
	controller Controller

	// Client management
	clients     sync.Map // map[string]*ClientSession
	clientCount int64    // atomic

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config Config
	logger log.Log

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	serveDone  chan struct{}
}

// Config holds server configuration
type Config struct {
	// Network settings
	ListenAddr string
	MaxClients int

	// Message settings
	MaxMessageSize int64
	SendBufferSize int
	WriteTimeout   time.Duration

	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		MaxClients:      256,
		MaxMessageSize:  4 * 1024,
		SendBufferSize:  16,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	case c.MaxClients <= 0:
		return fmt.Errorf("%w: max clients must be positive", ErrInvalidConfig)
	case c.MaxMessageSize <= 0:
		return fmt.Errorf("%w: max message size must be positive", ErrInvalidConfig)
	case c.SendBufferSize <= 0:
		return fmt.Errorf("%w: send buffer size must be positive", ErrInvalidConfig)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// NewServer creates a server. A nil controller makes every client a
// spectator: inbound commands are rejected.
func NewServer(config Config, controller Controller, logger log.Log) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Provide()
	}

	server := &Server{
		controller: controller,
		config:     config,
		logger:     logger.With(log.String("component", "server")),
	}

	server.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))

	return server, nil
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}

	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("Starting server")

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveDone := make(chan struct{})

	s.mu.Lock()
	s.listener = listener
	s.httpServer = httpServer
	s.serveDone = serveDone
	s.mu.Unlock()

	go func() {
		defer close(serveDone)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))

	return nil
}

// Addr reports the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts down the HTTP server and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	s.clients.Range(func(_, value any) bool {
		if session, ok := value.(*ClientSession); ok {
			session.Close()
		}
		return true
	})

	s.mu.Lock()
	httpServer, serveDone := s.httpServer, s.serveDone
	s.mu.Unlock()

	err := httpServer.Shutdown(shutdownCtx)
	<-serveDone

	s.logger.Info("Server stopped")

	return err
}

// Close closes the server and releases all resources
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil // Already closed
	}

	s.logger.Info("Closing server")

	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}

	s.logger.Info("Server closed")

	return nil
}

func (s *Server) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Server) ClientCount() int {
	return int(atomic.LoadInt64(&s.clientCount))
}

// Broadcast sends frame to every connected client. Clients whose send
// buffer is full skip the frame.
func (s *Server) Broadcast(frame host.Frame) error {
	payload, err := json.Marshal(stateMessage{Type: messageTypeState, Frame: frame})
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", frame.Tick, err)
	}

	s.clients.Range(func(_, value any) bool {
		session, ok := value.(*ClientSession)
		if !ok {
			return true
		}
		if !session.enqueue(payload) {
			s.logger.Debug("Dropping frame for slow client",
				log.String("client_id", session.ID),
				log.Uint64("tick", frame.Tick))
		}
		return true
	})

	return nil
}

// Pump broadcasts frames until ctx is done or frames is closed.
func (s *Server) Pump(ctx context.Context, frames <-chan host.Frame) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := s.Broadcast(frame); err != nil {
				s.logger.Error("Failed to broadcast frame", log.Error(err))
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.ClientCount(),
	})
}
