package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks the live widget sockets of every session.
type Manager struct {
	mu       sync.Mutex
	sessions map[*websocket.Conn]string
	timeouts TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		sessions: make(map[*websocket.Conn]string),
		timeouts: timeouts,
	}
}

// AddConnection registers conn as belonging to sessionID.
func (m *Manager) AddConnection(sessionID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[conn] = sessionID
}

func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conn)
}

func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.sessions[conn]
	return exists
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SessionConnectionCount returns how many sockets sessionID has open, one per
// browser tab.
func (m *Manager) SessionConnectionCount(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, id := range m.sessions {
		if id == sessionID {
			count++
		}
	}
	return count
}

// CloseAll sends a going-away close frame to every connection and forgets
// them. Used on shutdown.
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(m.sessions))
	for conn := range m.sessions {
		conns = append(conns, conn)
	}
	m.sessions = make(map[*websocket.Conn]string)
	m.mu.Unlock()

	deadline := time.Now().Add(m.timeouts.WriteWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			log.Debug().Err(err).Msg("Failed to send close frame")
		}
		_ = conn.Close()
	}
	return len(conns)
}

// GetTimeouts returns the current timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}
