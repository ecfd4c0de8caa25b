/*
Package handler provides the HTTP handlers and routing setup for the codesync server.

This file contains the WebSocket upgrade handler. Unlike the REST routes, a
connection carries no room binding at upgrade time: the client declares its
room and user name with a join event after the connection is established.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"codesync/internal/app/collab"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/limiter"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that rate limits, upgrades the
// connection, and starts the client's read and write pumps.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := collab.NewClient(deps.Router, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", client.ID())

		client.ReadPump()
	}
}
