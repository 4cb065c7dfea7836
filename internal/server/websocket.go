package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/voxelphys/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	logger log.Log
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.ClientCount() >= s.config.MaxClients {
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket upgrade failed", log.Error(err))
		return
	}

	id := uuid.NewString()
	c := &client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, max(s.config.ClientBuffer, 1)),
		logger: s.logger.With(log.String("client_id", id)),
	}

	if err = s.writeJSON(c, s.hello); err != nil {
		c.logger.Debug("Failed to send hello", log.Error(err))
		_ = conn.Close()
		return
	}

	if err = s.register(c); err != nil {
		c.logger.Warn("Client rejected", log.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	c.logger.Info("Client connected",
		log.String("remote_addr", r.RemoteAddr),
		log.Int64("total_clients", s.clientCount.Load()))

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) writeJSON(c *client, msg any) error {
	if s.config.WriteTimeout.Duration > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout.Duration))
	}
	return c.conn.WriteJSON(msg)
}

// writeLoop is the only writer on c.conn once the client is registered.
func (s *Server) writeLoop(c *client) {
	defer func() { _ = c.conn.Close() }()

	for payload := range c.send {
		if s.config.WriteTimeout.Duration > 0 {
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout.Duration))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.logger.Debug("Write failed", log.Error(err))
			s.unregister(c)
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.unregister(c)
		c.logger.Info("Client disconnected", log.Int64("total_clients", s.clientCount.Load()))
	}()

	if s.config.MaxMessageSize > 0 {
		c.conn.SetReadLimit(s.config.MaxMessageSize)
	}

	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("Read failed", log.Error(err))
			}
			return
		}

		if err = s.handleMessage(p); err != nil {
			c.logger.Debug("Rejected client message", log.Error(err))
			s.reply(c, ErrorMessage{Type: TypeError, Error: err.Error()})
		}
	}
}

func (s *Server) handleMessage(p []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(p, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	switch msg.Type {
	case TypeVelocity:
		if msg.ID == "" {
			return fmt.Errorf("%w: velocity without id", ErrInvalidMessage)
		}
		return s.scene.SetVelocity(msg.ID, mgl64.Vec3(msg.Velocity))
	default:
		return errors.Join(ErrUnknownMessageType, fmt.Errorf("type %q", msg.Type))
	}
}
