/*
Package collab contains the core logic for collaborative editing sessions:
room state, per-connection sessions, the event router, and the WebSocket
transport hub.

This file defines the Store, which owns every Room's shared state. The Store
is pure data with invariant-preserving mutators: it never performs I/O and
never initiates broadcasts itself.
*/
package collab

import (
	"sync"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

const (
	// DefaultDocument is the placeholder content every new room starts with.
	DefaultDocument = "// start code here"

	// DefaultLanguage is the language tag every new room starts with.
	DefaultLanguage = "javascript"
)

// Room holds the shared state of a single collaborative session. Membership
// is a set of display names: two connections using the same name collapse
// into one entry.
type Room struct {
	ID                  string
	members             map[string]struct{}
	DocumentText        string
	ActiveLanguage      string
	LastExecutionResult string
}

// RoomSnapshot is a point-in-time copy of a Room's state, safe to use
// without holding the Store lock.
type RoomSnapshot struct {
	ID                  string
	Members             []string
	DocumentText        string
	ActiveLanguage      string
	LastExecutionResult string
}

// Store owns the mapping from room ID to Room. It is shared by all
// connections; every mutator takes the store lock so each operation is
// atomic. Rooms are created on first join and kept for the life of the
// process, matching the upstream behavior of never deleting empty rooms.
type Store struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger zerolog.Logger
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		rooms:  make(map[string]*Room),
		logger: logx.Logger().With().Str("component", "Store").Logger(),
	}
}

// GetOrCreate returns a snapshot of the room with the given ID, creating the
// room with default document and language if it does not exist yet.
func (s *Store) GetOrCreate(roomID string) RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		room = &Room{
			ID:             roomID,
			members:        make(map[string]struct{}),
			DocumentText:   DefaultDocument,
			ActiveLanguage: DefaultLanguage,
		}
		s.rooms[roomID] = room

		s.logger.Info().Str("room_id", roomID).Msg("Room created.")
	}

	return snapshotLocked(room)
}

// AddMember adds the user name to the room's membership set. Adding a name
// that is already present is a no-op.
func (s *Store) AddMember(roomID, userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}

	room.members[userName] = struct{}{}
}

// RemoveMember removes the user name from the room's membership set.
// Removing from a nonexistent room or removing an absent name is a no-op.
func (s *Store) RemoveMember(roomID, userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return
	}

	delete(room.members, userName)
}

// SetDocument overwrites the room's shared document text. Last write wins;
// mutating a nonexistent room is a no-op.
func (s *Store) SetDocument(roomID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[roomID]; ok {
		room.DocumentText = text
	}
}

// SetLanguage overwrites the room's active language tag.
func (s *Store) SetLanguage(roomID, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[roomID]; ok {
		room.ActiveLanguage = language
	}
}

// SetExecutionResult overwrites the room's most recent execution output.
func (s *Store) SetExecutionResult(roomID, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[roomID]; ok {
		room.LastExecutionResult = output
	}
}

// SnapshotMembers returns the room's current member names. Iteration order
// follows Go map semantics and is not stable; callers must treat the result
// as a set. A nonexistent room yields an empty slice.
func (s *Store) SnapshotMembers(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return []string{}
	}

	members := make([]string, 0, len(room.members))
	for name := range room.members {
		members = append(members, name)
	}

	return members
}

// Snapshot returns a point-in-time copy of the room's state, or false when
// the room does not exist.
func (s *Store) Snapshot(roomID string) (RoomSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return RoomSnapshot{}, false
	}

	return snapshotLocked(room), true
}

// snapshotLocked copies the room's state. Callers must hold the store lock.
func snapshotLocked(room *Room) RoomSnapshot {
	members := make([]string, 0, len(room.members))
	for name := range room.members {
		members = append(members, name)
	}

	return RoomSnapshot{
		ID:                  room.ID,
		Members:             members,
		DocumentText:        room.DocumentText,
		ActiveLanguage:      room.ActiveLanguage,
		LastExecutionResult: room.LastExecutionResult,
	}
}
