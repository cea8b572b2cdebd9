package ws

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*nethttp.Request) bool { return true }}
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Subscribe("", conn)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSessions(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SessionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("session count never reached %d, at %d", want, hub.SessionCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)
	waitForSessions(t, hub, 1)

	hub.Broadcast(map[string]string{"type": "layout", "name": "Example"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var msg map[string]string
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if msg["type"] != "layout" || msg["name"] != "Example" {
		t.Fatalf("unexpected broadcast payload: %v", msg)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(nil)
	dialTestHub(t, hub)
	waitForSessions(t, hub, 1)

	hub.Unsubscribe("viewer-1")
	if hub.SessionCount() != 0 {
		t.Fatalf("expected 0 sessions after unsubscribe, got %d", hub.SessionCount())
	}

	// Unsubscribing an unknown ID is a no-op.
	hub.Unsubscribe("viewer-1")
}

func TestHubDropsFailedWriters(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub)
	waitForSessions(t, hub, 1)

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SessionCount() != 0 {
		hub.Broadcast(map[string]string{"type": "ping"})
		if time.Now().After(deadline) {
			t.Fatalf("hub never dropped the closed session")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
