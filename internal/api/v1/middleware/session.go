package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/partselect/partchat/internal/services/session"
	"github.com/partselect/partchat/pkg/httpext"
)

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
)

// RequireSession resolves the visitor's session, issuing a cookie on first
// contact, and stores its ID in the request context.
func RequireSession(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := sessions.EnsureSession(w, r)
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("Failed to establish session")
				httpext.JsonError(w, "Failed to establish session", http.StatusInternalServerError)
				return
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("session_id", sessionID)
			})

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionID returns the session stored by RequireSession, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
