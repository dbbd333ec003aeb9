package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/neutreeko/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if _, exists := hub.sessions["test-session"]; !exists {
		t.Fatal("Session was not created")
	}
	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Client send channel should be closed")
	}

	// a second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := newTestClient(hub, sessionID)
	other := newTestClient(hub, "other-session")
	hub.registerClient(client)
	hub.registerClient(other)

	state := engine.InitGameStateFromConfig(engine.ClassicConfig())
	hub.BroadcastToSession(sessionID, state)

	// drain the queue the way Run would
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
		}
		if message.GameState == nil {
			t.Fatal("GameState missing from message")
		}
		if message.GameState.Board != engine.OpeningBoard() {
			t.Error("GameState board not correctly transmitted")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client of another session should not receive the message")
	default:
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", EventStep, "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != EventStep {
			t.Errorf("Expected event %q, got %s", EventStep, message.Event)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message queued")
	}
}

func TestHubBroadcastDoesNotBlockWhenQueueFull(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastEvent("full", EventStep, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked with no hub running")
	}

	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected %d queued messages, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestHubSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventStep})

	if _, exists := hub.sessions["slow"]; exists {
		t.Error("Slow client should have been unregistered")
	}
}

func dialTestServer(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?sessionId=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketMessageReceive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	conn := dialTestServer(t, hub, "msg-test")

	// give the register request time to reach the hub
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastEvent("msg-test", EventReset, map[string]int{"turns_count": 0})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.Event != EventReset {
		t.Errorf("Expected event %q, got %s", EventReset, message.Event)
	}
	payload, ok := message.Data.(map[string]interface{})
	if !ok || payload["turns_count"] != float64(0) {
		t.Errorf("Unexpected payload: %v", message.Data)
	}
}

func TestWebSocketClosedOnHubShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := dialTestServer(t, hub, "shutdown-test")
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after hub shutdown")
	}
}
