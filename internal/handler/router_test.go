package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"codesync/internal/app/collab"
	"codesync/internal/configs"
)

type stubExecutor struct{}

func (stubExecutor) Execute(_ context.Context, _, _, _, _ string) collab.ExecutionResult {
	return collab.ExecutionResult{
		Raw:    []byte(`{"run":{"output":"ok"}}`),
		Output: "ok",
	}
}

func newTestServer(t *testing.T, staticDir string) *httptest.Server {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:    "development",
		AllowedOrigins: []string{},
		StaticDir:      staticDir,
	}

	eventRouter := collab.NewRouter(collab.NewStore(), collab.NewHub(), stubExecutor{})

	srv := httptest.NewServer(Router(&AppDeps{
		Router: eventRouter,
		Config: cfg,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) collab.Event {
	t.Helper()

	var ev collab.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", res.StatusCode)
	}

	var body struct {
		Code int `json:"code"`
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != 0 || body.Data.Status != "ok" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestStaticFallbackToIndex(t *testing.T) {
	dir := t.TempDir()
	index := []byte("<html>app</html>")
	if err := os.WriteFile(filepath.Join(dir, "index.html"), index, 0o644); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, dir)

	for _, path := range []string{"/", "/room/abc123"} {
		res, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: unexpected status %d", path, res.StatusCode)
		}
	}
}

func TestWebSocketJoinFlow(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	conn := dialWS(t, srv)

	join := collab.Event{
		Type:    collab.EventJoin,
		Payload: json.RawMessage(`{"roomId":"r1","userName":"alice"}`),
	}
	if err := conn.WriteJSON(join); err != nil {
		t.Fatalf("write join: %v", err)
	}

	ev := readEvent(t, conn)
	if ev.Type != collab.EventCodeUpdate {
		t.Fatalf("expected codeUpdate first, got %q", ev.Type)
	}
	var doc string
	if err := json.Unmarshal(ev.Payload, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if doc != collab.DefaultDocument {
		t.Fatalf("unexpected document: %q", doc)
	}

	ev = readEvent(t, conn)
	if ev.Type != collab.EventUserJoined {
		t.Fatalf("expected userJoined, got %q", ev.Type)
	}
	var members []string
	if err := json.Unmarshal(ev.Payload, &members); err != nil {
		t.Fatalf("unmarshal members: %v", err)
	}
	if len(members) != 1 || members[0] != "alice" {
		t.Fatalf("unexpected members: %v", members)
	}
}

func TestWebSocketDisconnectNotifiesRoom(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	connX := dialWS(t, srv)
	connY := dialWS(t, srv)

	joinX := collab.Event{Type: collab.EventJoin, Payload: json.RawMessage(`{"roomId":"r1","userName":"alice"}`)}
	joinY := collab.Event{Type: collab.EventJoin, Payload: json.RawMessage(`{"roomId":"r1","userName":"bob"}`)}

	if err := connX.WriteJSON(joinX); err != nil {
		t.Fatalf("write join: %v", err)
	}
	// X: codeUpdate, userJoined(alice).
	readEvent(t, connX)
	readEvent(t, connX)

	if err := connY.WriteJSON(joinY); err != nil {
		t.Fatalf("write join: %v", err)
	}
	// Y: codeUpdate, userJoined(alice,bob); X: userJoined(alice,bob).
	readEvent(t, connY)
	readEvent(t, connY)
	readEvent(t, connX)

	connX.Close()

	ev := readEvent(t, connY)
	if ev.Type != collab.EventUserJoined {
		t.Fatalf("expected userJoined after disconnect, got %q", ev.Type)
	}
	var members []string
	if err := json.Unmarshal(ev.Payload, &members); err != nil {
		t.Fatalf("unmarshal members: %v", err)
	}
	if len(members) != 1 || members[0] != "bob" {
		t.Fatalf("expected only bob to remain, got %v", members)
	}
}
