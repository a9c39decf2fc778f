package ws

import "encoding/json"

// Client -> server event names. Server -> client events reuse
// new_message/messages_read (emitted by the message service through the
// hub) plus typing rebroadcasts, online_status replies, and error.
const (
	EventJoinMatch         = "join_match"
	EventLeaveMatch        = "leave_match"
	EventSendMessage       = "send_message"
	EventMarkAsRead        = "mark_as_read"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
	EventCheckOnlineStatus = "check_online_status"

	EventOnlineStatus = "online_status"
	EventError        = "error"
)

// Envelope is the wire frame for every websocket message in both
// directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomPayload struct {
	MatchID string `json:"match_id"`
}

type SendMessagePayload struct {
	MatchID  string `json:"match_id"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

type TypingPayload struct {
	MatchID string `json:"match_id"`
	UserID  string `json:"user_id,omitempty"`
}

type OnlineStatusRequest struct {
	UserIDs []string `json:"user_ids"`
}

type UserPresence struct {
	UserID   string `json:"user_id"`
	IsOnline bool   `json:"is_online"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
