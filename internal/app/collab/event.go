/*
Package collab contains the core logic for collaborative editing sessions.

This file defines the wire-level event envelope and the payload structures
exchanged with clients. Every frame is a JSON envelope {type, payload}; the
payload shape depends on the event type.
*/
package collab

import "encoding/json"

// EventType identifies an inbound or outbound event.
type EventType string

// Inbound event types, sent by clients.
const (
	EventJoin           EventType = "join"
	EventCodeChange     EventType = "codeChange"
	EventTyping         EventType = "typing"
	EventLanguageChange EventType = "languageChange"
	EventCompileCode    EventType = "compileCode"
	EventLeaveRoom      EventType = "leaveRoom"
)

// Outbound event types, sent by the server.
const (
	EventCodeUpdate     EventType = "codeUpdate"
	EventUserJoined     EventType = "userJoined"
	EventUserTyping     EventType = "userTyping"
	EventLanguageUpdate EventType = "languageUpdate"
	EventCodeResponse   EventType = "codeResponse"
)

// Event is the JSON envelope for every frame on the wire.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload attaches the connection to a room under a display name.
type JoinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// CodeChangePayload replaces the room's shared document text.
type CodeChangePayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// TypingPayload is a transient typing notice; it mutates nothing.
type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

// LanguageChangePayload replaces the room's active language tag.
type LanguageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

// CompileCodePayload requests execution of a document snapshot. Stdin is
// optional.
type CompileCodePayload struct {
	Code     string `json:"code"`
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
	Version  string `json:"version"`
	Stdin    string `json:"stdin,omitempty"`
}

// NewEvent marshals the payload and wraps it in the event envelope, returning
// the frame ready for the wire.
func NewEvent(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:    eventType,
		Payload: payloadBytes,
	})
}
