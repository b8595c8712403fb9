// internal/websocket/client.go
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one live dashboard connection.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	agentID   int64
	sessionID string

	closeOnce sync.Once
}

// NewClient wraps an upgraded connection and starts its pumps.
func NewClient(hub *Hub, conn *websocket.Conn, agentID int64, sessionID string) *Client {
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		agentID:   agentID,
		sessionID: sessionID,
	}

	hub.register <- c
	go c.writePump()
	go c.readPump()

	return c
}

// Send queues an event for delivery. Events are dropped when the client's
// buffer is full rather than blocking the hub.
func (c *Client) Send(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		c.hub.logger.Warn("failed to marshal websocket event", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("websocket send buffer full, dropping event",
			zap.Int64("agent_id", c.agentID),
			zap.String("event", event.Type),
		)
	}
}

// Close shuts the connection's send channel. Safe to call repeatedly.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump discards inbound frames (the dashboard channel is push-only) and
// keeps the pong deadline fresh.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error",
					zap.Int64("agent_id", c.agentID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
