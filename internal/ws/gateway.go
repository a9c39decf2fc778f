package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventHandler func(c *Client, data json.RawMessage) error

// Gateway upgrades authenticated HTTP requests to websocket connections and
// routes inbound events through a typed dispatch table. Room membership and
// match participation are checked here, before any handler runs.
type Gateway struct {
	hub      *Hub
	messages *services.MessageService
	logger   *slog.Logger
	handlers map[string]eventHandler
}

func NewGateway(hub *Hub, messages *services.MessageService, logger *slog.Logger) *Gateway {
	g := &Gateway{hub: hub, messages: messages, logger: logger}
	g.handlers = map[string]eventHandler{
		EventJoinMatch:         g.handleJoin,
		EventLeaveMatch:        g.handleLeave,
		EventSendMessage:       g.handleSendMessage,
		EventMarkAsRead:        g.handleMarkRead,
		EventTypingStart:       g.handleTyping(EventTypingStart),
		EventTypingStop:        g.handleTyping(EventTypingStop),
		EventCheckOnlineStatus: g.handleOnlineStatus,
	}
	return g
}

// HandleConnection is the Echo handler for the websocket endpoint. The auth
// middleware has already resolved the user.
func (g *Gateway) HandleConnection(c echo.Context) error {
	userID, _ := c.Get("userID").(string)
	if userID == "" {
		return apperrors.Auth("authentication required")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := &Client{
		hub:     g.hub,
		gateway: g,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, 256),
		logger:  g.logger,
	}
	g.hub.register <- client
	go client.WritePump()
	go client.ReadPump()
	return nil
}

// dispatch validates the envelope, looks up the handler, and mirrors every
// failure back as an error event instead of dropping the action silently.
func (g *Gateway) dispatch(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.SendEvent(EventError, ErrorPayload{Message: "malformed event"})
		return
	}
	handler, ok := g.handlers[env.Event]
	if !ok {
		c.SendEvent(EventError, ErrorPayload{Message: "unknown event: " + env.Event})
		return
	}
	if err := handler(c, env.Data); err != nil {
		c.SendEvent(EventError, ErrorPayload{Message: clientMessage(err)})
	}
}

func (g *Gateway) handleJoin(c *Client, data json.RawMessage) error {
	var p RoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID == "" {
		return apperrors.Validation("match_id is required")
	}
	ok, err := g.messages.IsParticipant(p.MatchID, c.userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("match not found")
	}
	g.hub.JoinRoom(p.MatchID, c)
	return nil
}

func (g *Gateway) handleLeave(c *Client, data json.RawMessage) error {
	var p RoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID == "" {
		return apperrors.Validation("match_id is required")
	}
	g.hub.LeaveRoom(p.MatchID, c)
	return nil
}

func (g *Gateway) handleSendMessage(c *Client, data json.RawMessage) error {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID == "" {
		return apperrors.Validation("match_id is required")
	}
	// The service persists, then broadcasts new_message to the room.
	_, err := g.messages.SendMessage(p.MatchID, c.userID, p.Content, p.ImageURL)
	return err
}

func (g *Gateway) handleMarkRead(c *Client, data json.RawMessage) error {
	var p RoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MatchID == "" {
		return apperrors.Validation("match_id is required")
	}
	_, err := g.messages.MarkRead(p.MatchID, c.userID)
	return err
}

// handleTyping rebroadcasts typing indicators to everyone else in the room.
// Nothing is persisted.
func (g *Gateway) handleTyping(event string) eventHandler {
	return func(c *Client, data json.RawMessage) error {
		var p TypingPayload
		if err := json.Unmarshal(data, &p); err != nil || p.MatchID == "" {
			return apperrors.Validation("match_id is required")
		}
		if !g.hub.InRoom(p.MatchID, c) {
			return apperrors.NotFound("match not found")
		}
		g.hub.BroadcastToOthers(p.MatchID, c, event, TypingPayload{
			MatchID: p.MatchID,
			UserID:  c.userID,
		})
		return nil
	}
}

func (g *Gateway) handleOnlineStatus(c *Client, data json.RawMessage) error {
	var p OnlineStatusRequest
	if err := json.Unmarshal(data, &p); err != nil {
		return apperrors.Validation("user_ids is required")
	}
	statuses := make([]UserPresence, len(p.UserIDs))
	for i, id := range p.UserIDs {
		statuses[i] = UserPresence{UserID: id, IsOnline: g.hub.IsOnline(id)}
	}
	c.SendEvent(EventOnlineStatus, statuses)
	return nil
}

// clientMessage keeps dependency failures from leaking internals to the
// peer.
func clientMessage(err error) string {
	var ae *apperrors.Error
	if errors.As(err, &ae) && ae.Kind != apperrors.KindDependency {
		return ae.Message
	}
	return "internal server error"
}
