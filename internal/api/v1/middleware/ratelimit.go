package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog/hlog"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/pkg/httpext"
	"github.com/partselect/partchat/pkg/ratelimit"
)

const pruneEvery = 1024

func RateLimit(limitKey string) func(http.Handler) http.Handler {
	cfg := config.GetRateLimitConfig(limitKey)
	return RateLimitWith(limitKey, cfg.Enabled, ratelimit.NewLimiter(cfg.Window, cfg.MaxHits))
}

// RateLimitWith limits requests per session, falling back to the client
// address for requests that carry no session.
func RateLimitWith(limitKey string, enabled bool, limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	var requests atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			key := SessionID(r.Context())
			if key == "" {
				// Use X-Forwarded-For if behind proxy, otherwise remote address
				key = r.Header.Get("X-Forwarded-For")
				if key == "" {
					key = r.RemoteAddr
				}
			}

			// Forget idle keys now and then.
			if requests.Add(1)%pruneEvery == 0 {
				limiter.Prune()
			}

			if !limiter.Allow(key) {
				hlog.FromRequest(r).Warn().
					Str("limit", limitKey).
					Str("key", key).
					Msg("Rate limit exceeded")
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
