// internal/websocket/client.go
package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket connection of an authenticated session.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	auth   *ClientAuth
	send   chan *Message
	logger *zap.Logger

	closed chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth, logger *zap.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		auth:   auth,
		send:   make(chan *Message, 16),
		logger: logger,
		closed: make(chan struct{}),
	}
}

// Send queues a message for delivery; drops it if the client is backed up.
func (c *Client) Send(msg *Message) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("ws send buffer full, dropping message",
			zap.Int64("user_id", c.auth.UserID),
			zap.String("type", msg.Type),
		)
	}
}

// Close tears down the connection; the read pump unregisters the client.
func (c *Client) Close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
		c.conn.Close()
	}
}

// ReadPump consumes inbound frames until the connection drops. The dashboard
// does not send application messages, so frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		// After hub shutdown nobody drains unregister; don't block on it.
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump flushes queued messages and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			return
		}
	}
}
