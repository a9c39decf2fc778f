package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// Client is one authenticated websocket connection.
type Client struct {
	hub     *Hub
	gateway *Gateway
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	logger  *slog.Logger
}

// UserID returns the authenticated user behind this connection.
func (c *Client) UserID() string { return c.userID }

// SendEvent queues an event for this connection only. Full buffers drop the
// frame rather than blocking the caller.
func (c *Client) SendEvent(event string, payload interface{}) {
	b, err := json.Marshal(Envelope{Event: event, Data: mustRaw(payload)})
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

// ReadPump consumes frames from the peer and feeds them to the gateway's
// dispatch table. It owns teardown: on any read error the connection is
// unregistered, which also purges presence and room membership.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "user_id", c.userID, "error", err)
			}
			break
		}
		c.gateway.dispatch(c, msg)
	}
}

// WritePump flushes queued frames to the peer and keeps the connection
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
