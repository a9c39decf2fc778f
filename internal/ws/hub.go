package ws

import (
	"encoding/json"
	"sync"
)

// Hub tracks every live connection, which match rooms each one has joined,
// and who is currently online. Presence is process-local and rebuilt from
// nothing on restart; the database stays the source of truth for entities.
type Hub struct {
	mu sync.RWMutex
	// match_id -> clients joined to the room
	rooms map[string]map[*Client]bool
	// user_id -> that user's open connections
	presence map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		presence:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns connection lifecycle. Intended to run as a single goroutine for
// the life of the process.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.presence[c.userID] == nil {
				h.presence[c.userID] = make(map[*Client]bool)
			}
			h.presence[c.userID][c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			if c == nil {
				continue
			}
			h.mu.Lock()
			if conns := h.presence[c.userID]; conns[c] {
				delete(conns, c)
				if len(conns) == 0 {
					delete(h.presence, c.userID)
				}
				close(c.send)
			}
			for matchID, members := range h.rooms {
				if members[c] {
					delete(members, c)
					if len(members) == 0 {
						delete(h.rooms, matchID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Register() chan<- *Client   { return h.register }
func (h *Hub) Unregister() chan<- *Client { return h.unregister }

// JoinRoom subscribes a connection to a match's broadcasts. Authorization
// happens before dispatch reaches here.
func (h *Hub) JoinRoom(matchID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[matchID] == nil {
		h.rooms[matchID] = make(map[*Client]bool)
	}
	h.rooms[matchID][c] = true
}

func (h *Hub) LeaveRoom(matchID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members := h.rooms[matchID]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, matchID)
		}
	}
}

// BroadcastToMatch delivers an event to every connection joined to the
// match's room. Delivery is best effort: a connection whose send buffer is
// full is skipped rather than blocking the room.
func (h *Hub) BroadcastToMatch(matchID, event string, payload interface{}) {
	h.broadcast(matchID, nil, event, payload)
}

// BroadcastToOthers is BroadcastToMatch minus the sender, used for
// ephemeral typing indicators.
func (h *Hub) BroadcastToOthers(matchID string, exclude *Client, event string, payload interface{}) {
	h.broadcast(matchID, exclude, event, payload)
}

func (h *Hub) broadcast(matchID string, exclude *Client, event string, payload interface{}) {
	b, err := json.Marshal(Envelope{Event: event, Data: mustRaw(payload)})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[matchID] {
		if c == exclude {
			continue
		}
		select {
		case c.send <- b:
		default:
		}
	}
}

// IsOnline reports whether the user has at least one open connection on
// this process.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.presence[userID]) > 0
}

// InRoom reports whether the connection has joined the match's room.
func (h *Hub) InRoom(matchID string, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[matchID][c]
}

func mustRaw(payload interface{}) json.RawMessage {
	if payload == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return b
}
