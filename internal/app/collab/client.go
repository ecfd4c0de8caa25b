/*
Package collab contains the core logic for collaborative editing sessions.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle, the read and write pumps,
and delegates decoded events to the Router.
*/
package collab

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"codesync/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	// Documents are sent whole on every edit, so the limit is generous.
	maxMessageSize = 512 * 1024

	// sendQueueSize is the per-connection outbound frame buffer.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection and its session state.
type Client struct {
	// id uniquely identifies the connection, independent of any display name.
	id string

	// router dispatches this connection's decoded events.
	router *Router

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// session records which room/user this connection currently represents.
	session *Session

	// send queues outbound frames for the write pump.
	send chan []byte

	// done is closed exactly once when the connection is torn down.
	done      chan struct{}
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded WebSocket connection.
func NewClient(router *Router, wsConn *websocket.Conn) *Client {
	connID := uuid.NewString()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		id:      connID,
		router:  router,
		conn:    wsConn,
		session: &Session{},
		send:    make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
		logger:  clientLogger,
	}
}

// ID returns the connection's unique identifier.
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads frames from the WebSocket connection and dispatches them to
// the Router, one at a time in arrival order. It performs disconnect cleanup
// when the connection drops.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundEvent(frame)
	}
}

// cleanupOnDisconnect tears the connection down after the read pump exits.
// The transport group entry is dropped first so the departure broadcast only
// reaches the remaining members, then the router applies leave semantics.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	if c.session.Attached() {
		c.router.hub.Unregister(c.session.Room(), c)
	}

	c.router.HandleDisconnect(c)

	c.closeOnce.Do(func() { close(c.done) })

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInboundEvent decodes the envelope and hands the event to the Router.
// Malformed frames are logged and dropped; they never fault the connection.
func (c *Client) processInboundEvent(frame []byte) {
	var event Event
	if err := json.Unmarshal(frame, &event); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame", frame).
			Msg("Client sent invalid JSON")
		return
	}

	switch event.Type {
	case EventJoin:
		var payload JoinPayload
		if !c.decodePayload(event, &payload) {
			return
		}
		c.router.HandleJoin(c, payload)

	case EventCodeChange:
		var payload CodeChangePayload
		if !c.decodePayload(event, &payload) {
			return
		}
		c.router.HandleCodeChange(c, payload)

	case EventTyping:
		var payload TypingPayload
		if !c.decodePayload(event, &payload) {
			return
		}
		c.router.HandleTyping(c, payload)

	case EventLanguageChange:
		var payload LanguageChangePayload
		if !c.decodePayload(event, &payload) {
			return
		}
		c.router.HandleLanguageChange(c, payload)

	case EventCompileCode:
		var payload CompileCodePayload
		if !c.decodePayload(event, &payload) {
			return
		}
		c.router.HandleCompileCode(c, payload)

	case EventLeaveRoom:
		c.router.HandleLeaveRoom(c)

	default:
		c.logger.Warn().Str("event_type", string(event.Type)).Msg("Client sent unsupported event type")
	}
}

// decodePayload unmarshals the event payload into dst, logging and reporting
// failure without faulting the connection.
func (c *Client) decodePayload(event Event, dst any) bool {
	if err := json.Unmarshal(event.Payload, dst); err != nil {
		c.logger.Warn().Err(err).
			Str("event_type", string(event.Type)).
			Msg("Client sent invalid event payload")
		return false
	}
	return true
}

// QueueSend enqueues a frame for delivery to this connection. The frame is
// dropped when the queue is full so one slow consumer cannot stall a room.
func (c *Client) QueueSend(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
	}
}

// WritePump writes queued frames to the WebSocket connection and maintains
// the ping heartbeat. It exits when the connection is torn down.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Info().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}

		case <-c.done:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close message")
			}
			return
		}
	}
}
