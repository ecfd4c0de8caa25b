/*
Package collab contains the core logic for collaborative editing sessions.

This file defines the Hub, the room-scoped multicast primitive. The Hub only
tracks which connections belong to which room's transport group; it knows
nothing about room state or event semantics.
*/
package collab

import (
	"sync"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

// Hub registers connections into per-room transport groups and delivers
// frames to them. Delivery is best-effort: a client whose send queue is full
// drops the frame rather than blocking the room.
type Hub struct {
	mu sync.RWMutex

	// rooms maps room ID to the set of connections in that room's group.
	rooms map[string]map[*Client]struct{}

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Register adds the connection to the room's transport group, creating the
// group on first use.
func (h *Hub) Register(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[*Client]struct{})
		h.rooms[roomID] = group
	}
	group[c] = struct{}{}

	h.logger.Debug().Str("room_id", roomID).Int("group_size", len(group)).Msg("Connection registered.")
}

// Unregister removes the connection from the room's transport group. Empty
// groups are dropped; this is transport bookkeeping only and does not touch
// room state.
func (h *Hub) Unregister(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		return
	}

	delete(group, c)
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}
}

// Multicast delivers the frame to every connection in the room's group.
func (h *Hub) Multicast(roomID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		client.QueueSend(frame)
	}
}

// MulticastExcept delivers the frame to every connection in the room's group
// except the sender.
func (h *Hub) MulticastExcept(roomID string, sender *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		if client == sender {
			continue
		}
		client.QueueSend(frame)
	}
}
