/*
Package collab contains the core logic for collaborative editing sessions.

This file defines the Session struct: the per-connection record of which
room and user name, if any, the connection currently represents.
*/
package collab

// Session tracks a single connection's room attachment. Both fields are set
// or both are empty; a connection belongs to at most one room at a time.
//
// A Session is owned by its connection and only ever touched from that
// connection's read loop, so it needs no locking. It references a room by ID
// only; the room may have been created or mutated by other connections.
type Session struct {
	currentRoom string
	currentUser string
}

// Attached reports whether the session currently designates a room/user pair.
func (s *Session) Attached() bool {
	return s.currentRoom != ""
}

// Attach records the room/user pair this connection now represents.
func (s *Session) Attach(roomID, userName string) {
	s.currentRoom = roomID
	s.currentUser = userName
}

// Detach clears the session back to the unattached state.
func (s *Session) Detach() {
	s.currentRoom = ""
	s.currentUser = ""
}

// Room returns the current room ID, or the empty string when unattached.
func (s *Session) Room() string {
	return s.currentRoom
}

// User returns the current user name, or the empty string when unattached.
func (s *Session) User() string {
	return s.currentUser
}
