package connections

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestManager(t *testing.T) {
	t.Run("add and remove per session", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)

		tabA := &websocket.Conn{}
		tabB := &websocket.Conn{}
		other := &websocket.Conn{}

		manager.AddConnection("session-a", tabA)
		manager.AddConnection("session-a", tabB)
		manager.AddConnection("session-b", other)

		if got := manager.SessionConnectionCount("session-a"); got != 2 {
			t.Errorf("expected 2 connections for session-a, got %d", got)
		}
		if got := manager.GetConnectionCount(); got != 3 {
			t.Errorf("expected 3 connections, got %d", got)
		}

		manager.RemoveConnection(tabA)
		if manager.HasConnection(tabA) {
			t.Error("Connection still exists after removal")
		}
		if got := manager.SessionConnectionCount("session-a"); got != 1 {
			t.Errorf("expected 1 connection for session-a, got %d", got)
		}
	})

	t.Run("concurrent connection operations", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)
		concurrentOps := 100

		connections := make([]*websocket.Conn, concurrentOps)
		for i := range connections {
			connections[i] = &websocket.Conn{}
		}

		var wg sync.WaitGroup
		wg.Add(concurrentOps)
		for _, conn := range connections {
			go func(conn *websocket.Conn) {
				defer wg.Done()
				manager.AddConnection("session", conn)
			}(conn)
		}
		wg.Wait()

		if got := manager.GetConnectionCount(); got != concurrentOps {
			t.Errorf("expected %d connections, got %d", concurrentOps, got)
		}

		wg.Add(concurrentOps)
		for _, conn := range connections {
			go func(conn *websocket.Conn) {
				defer wg.Done()
				manager.RemoveConnection(conn)
			}(conn)
		}
		wg.Wait()

		if got := manager.GetConnectionCount(); got != 0 {
			t.Errorf("expected no connections, got %d", got)
		}
	})

	t.Run("close all sends going away", func(t *testing.T) {
		manager := NewManager(TimeoutConfig{
			PongWait:   time.Second,
			PingPeriod: 900 * time.Millisecond,
			WriteWait:  time.Second,
		})

		upgrader := websocket.Upgrader{}
		registered := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			manager.AddConnection("session", conn)
			close(registered)
		}))
		defer server.Close()

		client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
		if err != nil {
			t.Fatalf("dial failed: %v", err)
		}
		defer client.Close()

		select {
		case <-registered:
		case <-time.After(time.Second):
			t.Fatal("server never registered the connection")
		}

		if closed := manager.CloseAll(); closed != 1 {
			t.Errorf("expected 1 closed connection, got %d", closed)
		}
		if manager.GetConnectionCount() != 0 {
			t.Error("connections remain after CloseAll")
		}

		_ = client.SetReadDeadline(time.Now().Add(time.Second))
		_, _, err = client.ReadMessage()
		if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
			t.Errorf("expected going-away close, got %v", err)
		}
	})

	t.Run("timeout configuration", func(t *testing.T) {
		customTimeouts := TimeoutConfig{
			PongWait:   1 * time.Minute,
			PingPeriod: 54 * time.Second,
			WriteWait:  20 * time.Second,
		}

		manager := NewManager(customTimeouts)
		if manager.GetTimeouts() != customTimeouts {
			t.Error("Timeout configuration not set correctly")
		}
	})
}
