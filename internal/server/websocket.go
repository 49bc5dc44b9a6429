package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/bumparena/internal/core/host"
	"github.com/zeusync/bumparena/internal/core/observability/log"
)

const (
	messageTypeState   = "state"
	messageTypeError   = "error"
	messageTypeWelcome = "welcome"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type stateMessage struct {
	Type string `json:"type"`
	host.Frame
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type welcomeMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
}

// ClientSession represents a connected client session
type ClientSession struct {
	ID          string
	Conn        *websocket.Conn
	ConnectedAt time.Time

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClientSession(conn *websocket.Conn, buffer int) *ClientSession {
	return &ClientSession{
		ID:          uuid.NewString(),
		Conn:        conn,
		ConnectedAt: time.Now(),
		send:        make(chan []byte, buffer),
		done:        make(chan struct{}),
	}
}

func (c *ClientSession) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close stops the writer and closes the connection. Safe to call more than once.
func (c *ClientSession) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.Conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.reserveSlot() {
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		atomic.AddInt64(&s.clientCount, -1)
		s.logger.Warn("Websocket upgrade failed",
			log.String("remote_addr", r.RemoteAddr),
			log.Error(err))
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	session := newClientSession(conn, s.config.SendBufferSize)
	s.clients.Store(session.ID, session)

	s.logger.Info("Client connected",
		log.String("client_id", session.ID),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))

	s.reply(session, welcomeMessage{Type: messageTypeWelcome, ClientID: session.ID})

	go s.writeLoop(session)
	s.handleClient(session)
}

// reserveSlot counts a new client up front so concurrent upgrades cannot
// exceed MaxClients. The slot is released by handleClient or on a failed upgrade.
func (s *Server) reserveSlot() bool {
	if atomic.AddInt64(&s.clientCount, 1) > int64(s.config.MaxClients) {
		atomic.AddInt64(&s.clientCount, -1)
		return false
	}
	return true
}

// handleClient reads commands until the connection fails or is closed.
func (s *Server) handleClient(session *ClientSession) {
	defer func() {
		s.clients.Delete(session.ID)
		atomic.AddInt64(&s.clientCount, -1)
		session.Close()

		s.logger.Info("Client disconnected",
			log.String("client_id", session.ID),
			log.Int64("total_clients", atomic.LoadInt64(&s.clientCount)))
	}()

	clientLogger := s.logger.With(log.String("client_id", session.ID))

	for {
		_, data, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				clientLogger.Warn("Failed to receive message", log.Error(err))
			}
			return
		}
		s.handleMessage(session, clientLogger, data)
	}
}

func (s *Server) handleMessage(session *ClientSession, clientLogger log.Log, data []byte) {
	var cmd host.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		clientLogger.Debug("Failed to parse message", log.Error(err))
		s.replyError(session, ErrInvalidMessage)
		return
	}

	if s.controller == nil {
		s.replyError(session, ErrInvalidMessage)
		return
	}

	if err := s.controller.Submit(cmd); err != nil {
		clientLogger.Debug("Command rejected",
			log.String("type", string(cmd.Kind)),
			log.Error(err))
		s.replyError(session, err)
		return
	}

	clientLogger.Debug("Command accepted", log.String("type", string(cmd.Kind)))
}

func (s *Server) replyError(session *ClientSession, err error) {
	s.reply(session, errorMessage{Type: messageTypeError, Error: err.Error()})
}

func (s *Server) reply(session *ClientSession, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode reply", log.Error(err))
		return
	}
	session.enqueue(payload)
}

func (s *Server) writeLoop(session *ClientSession) {
	for {
		select {
		case <-session.done:
			return
		case payload := <-session.send:
			_ = session.Conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := session.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Debug("Failed to send message",
					log.String("client_id", session.ID),
					log.Error(err))
				session.Close()
				return
			}
		}
	}
}
