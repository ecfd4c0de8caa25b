/*
Package collab contains the core logic for collaborative editing sessions.

This file defines the Router, which receives decoded events from a
connection, applies them to the Store and the connection's Session, and
decides the outbound multicast for each. State mutation and notification
happen together so callers observe them as one step.
*/
package collab

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

// ExecutionResult is the settled outcome of a code execution request. Raw is
// the provider response body (or a normalized error envelope) broadcast to
// the room; Output is the extracted run output stored in room state.
type ExecutionResult struct {
	Raw    []byte
	Output string
}

// Executor dispatches a document snapshot to the external execution service.
// Implementations never return an error: failures settle as a normalized
// ExecutionResult so the Router cannot distinguish them from slow successes.
type Executor interface {
	Execute(ctx context.Context, code, language, version, stdin string) ExecutionResult
}

// Router validates and dispatches inbound events against the Store and each
// connection's Session, and orchestrates outbound multicasts via the Hub.
// All handlers for one connection run serially on that connection's read
// loop; only code execution is dispatched off it.
type Router struct {
	store  *Store
	hub    *Hub
	exec   Executor
	logger zerolog.Logger
}

// NewRouter constructs a Router over the given store, hub, and executor.
func NewRouter(store *Store, hub *Hub, exec Executor) *Router {
	return &Router{
		store:  store,
		hub:    hub,
		exec:   exec,
		logger: logx.Logger().With().Str("component", "Router").Logger(),
	}
}

// HandleJoin attaches the connection to a room. A connection already in a
// room departs from it first, with the usual leave side effects. The joiner
// alone receives the room's current document, so joining never re-triggers
// edits on other editors; everyone in the room, joiner included, receives
// the updated member list.
func (rt *Router) HandleJoin(c *Client, p JoinPayload) {
	if c.session.Attached() {
		rt.departRoom(c, true)
	}

	room := rt.store.GetOrCreate(p.RoomID)
	rt.store.AddMember(p.RoomID, p.UserName)
	c.session.Attach(p.RoomID, p.UserName)
	rt.hub.Register(p.RoomID, c)

	if frame, err := NewEvent(EventCodeUpdate, room.DocumentText); err == nil {
		c.QueueSend(frame)
	} else {
		rt.logger.Error().Err(err).Msg("Failed to build codeUpdate event for joiner.")
	}

	rt.broadcastMembers(p.RoomID)

	rt.logger.Info().
		Str("room_id", p.RoomID).
		Str("user_name", p.UserName).
		Str("conn_id", c.id).
		Msg("Connection joined room.")
}

// HandleCodeChange stores the new document text and forwards it to every
// other connection in the room. The sender is excluded to avoid echoing the
// edit back into its own editor. The payload's room ID is trusted as-is.
func (rt *Router) HandleCodeChange(c *Client, p CodeChangePayload) {
	rt.store.SetDocument(p.RoomID, p.Code)

	frame, err := NewEvent(EventCodeUpdate, p.Code)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build codeUpdate event.")
		return
	}

	rt.hub.MulticastExcept(p.RoomID, c, frame)
}

// HandleTyping forwards a transient typing notice to every other connection
// in the room. Nothing is stored; receivers clear the notice themselves.
func (rt *Router) HandleTyping(c *Client, p TypingPayload) {
	frame, err := NewEvent(EventUserTyping, p.UserName)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build userTyping event.")
		return
	}

	rt.hub.MulticastExcept(p.RoomID, c, frame)
}

// HandleLanguageChange stores the new language tag and announces it to the
// whole room, sender included, so every selector reflects the confirmed
// server state.
func (rt *Router) HandleLanguageChange(c *Client, p LanguageChangePayload) {
	rt.store.SetLanguage(p.RoomID, p.Language)

	frame, err := NewEvent(EventLanguageUpdate, p.Language)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build languageUpdate event.")
		return
	}

	rt.hub.Multicast(p.RoomID, frame)
}

// HandleCompileCode dispatches the document snapshot to the execution
// service without touching document state. The call runs off the read loop
// so the connection stays responsive; when it settles, the result, success
// or normalized failure alike, is stored and broadcast to the whole room
// through the ordinary codeResponse event. A single attempt, no retry.
func (rt *Router) HandleCompileCode(c *Client, p CompileCodePayload) {
	go func() {
		result := rt.exec.Execute(context.Background(), p.Code, p.Language, p.Version, p.Stdin)

		rt.store.SetExecutionResult(p.RoomID, result.Output)

		frame, err := NewEvent(EventCodeResponse, json.RawMessage(result.Raw))
		if err != nil {
			rt.logger.Error().Err(err).Msg("Failed to build codeResponse event.")
			return
		}

		rt.hub.Multicast(p.RoomID, frame)
	}()
}

// HandleLeaveRoom detaches the connection from its current room, removing
// its membership, announcing the updated member list, and unregistering the
// connection from the room's transport group. A connection that is not in a
// room is a no-op; no broadcast is produced.
func (rt *Router) HandleLeaveRoom(c *Client) {
	if !c.session.Attached() {
		return
	}

	rt.departRoom(c, true)
}

// HandleDisconnect applies leave semantics for a dropped connection. The
// transport group entry is already gone by the time this runs, so only
// membership removal and the departure broadcast remain.
func (rt *Router) HandleDisconnect(c *Client) {
	if !c.session.Attached() {
		return
	}

	rt.departRoom(c, false)
}

// departRoom removes the connection's membership, broadcasts the updated
// member list, and optionally unregisters the connection from the room's
// transport group. The broadcast goes out before unregistering, so a
// client-issued leave still sees the member list it is no longer on.
func (rt *Router) departRoom(c *Client, unregisterTransport bool) {
	roomID := c.session.Room()
	userName := c.session.User()

	rt.store.RemoveMember(roomID, userName)
	rt.broadcastMembers(roomID)

	if unregisterTransport {
		rt.hub.Unregister(roomID, c)
	}

	c.session.Detach()

	rt.logger.Info().
		Str("room_id", roomID).
		Str("user_name", userName).
		Str("conn_id", c.id).
		Msg("Connection left room.")
}

// broadcastMembers announces the room's current member list to everyone in
// its transport group.
func (rt *Router) broadcastMembers(roomID string) {
	members := rt.store.SnapshotMembers(roomID)

	frame, err := NewEvent(EventUserJoined, members)
	if err != nil {
		rt.logger.Error().Err(err).Msg("Failed to build userJoined event.")
		return
	}

	rt.hub.Multicast(roomID, frame)
}
