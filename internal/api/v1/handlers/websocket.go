package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/partselect/partchat/internal/api/v1/middleware"
	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/services"
	"github.com/partselect/partchat/internal/services/conversation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts same-host pages and the configured CORS origins.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	allowed := config.GetAllowedOrigins()
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

// HandleChatWebSocket pushes the session's conversation to the widget: the
// current state on connect, then every state change. Messages from the
// client are ignored.
func HandleChatWebSocket(s *services.Services, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)
	sessionID := middleware.SessionID(r.Context())

	ctrl, err := s.GetConversationService().Controller(r.Context(), sessionID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	manager := s.GetConnectionManager()
	timeouts := manager.GetTimeouts()
	manager.AddConnection(sessionID, conn)
	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
	}()

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	// Set up ping/pong handlers
	_ = conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	// The reader only drives pong handling and notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug().Err(err).Msg("Unexpected websocket closure")
				}
				return
			}
		}
	}()

	send := func(v StateView) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(timeouts.WriteWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	push := func(st conversation.State) bool {
		view, err := newStateView(s.GetRenderer(), st)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to render conversation")
			return false
		}
		return send(view) == nil
	}

	if !push(ctrl.State()) {
		return
	}

	ticker := time.NewTicker(timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case st := <-updates:
			if !push(st) {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(timeouts.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
