package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/infrastructure/redis"
)

const (
	cookieLifetime = 1 * time.Hour
	keyPrefix      = "session:"
)

// Claims identify an anonymous widget visitor.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type SessionStore interface {
	Set(ctx context.Context, sessionID string, claims *Claims) error
	// Get returns nil, nil for unknown sessions.
	Get(ctx context.Context, sessionID string) (*Claims, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Claims
	now      func() time.Time
}

type Service struct {
	store SessionStore
	now   func() time.Time
}

func NewService(redisService *redis.Service) *Service {
	var store SessionStore
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable - falling back to in-memory session storage")
			store = newMemoryStore()
		} else {
			store = &RedisStore{redisService: redisService}
		}
	} else {
		store = newMemoryStore()
	}

	return &Service{store: store, now: time.Now}
}

func newMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Claims),
		now:      time.Now,
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, sessionID string, claims *Claims) error {
	data, err := json.Marshal(claims)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, keyPrefix+sessionID, string(data), cookieLifetime)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*Claims, error) {
	data, err := rs.redisService.Get(ctx, keyPrefix+sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var claims Claims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, err
	}

	return &claims, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, keyPrefix+sessionID)
}

// Memory Store implementation
func (ms *MemoryStore) Set(ctx context.Context, sessionID string, claims *Claims) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[sessionID] = claims
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*Claims, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	claims, exists := ms.sessions[sessionID]
	if !exists || ms.expired(claims) {
		return nil, nil
	}
	return claims, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (ms *MemoryStore) Sweep() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for id, claims := range ms.sessions {
		if ms.expired(claims) {
			delete(ms.sessions, id)
			removed++
		}
	}
	return removed
}

func (ms *MemoryStore) expired(claims *Claims) bool {
	return claims.ExpiresAt == nil || !ms.now().Before(claims.ExpiresAt.Time)
}

// Prune drops expired sessions from in-process storage. Redis expires its
// keys on its own.
func (s *Service) Prune() int {
	ms, ok := s.store.(*MemoryStore)
	if !ok {
		return 0
	}
	removed := ms.Sweep()
	if removed > 0 {
		log.Debug().Int("expired", removed).Msg("Pruned expired sessions")
	}
	return removed
}

// EnsureSession returns the session ID carried by the request cookie, issuing
// a new session cookie when the request has none or it is no longer valid.
func (s *Service) EnsureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	claims, err := s.ValidateSession(r)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding invalid session cookie")
	}
	if claims != nil {
		return claims.SessionID, nil
	}

	return s.CreateSession(r.Context(), w)
}

// CreateSession generates a new session cookie and sets it in the response
func (s *Service) CreateSession(ctx context.Context, w http.ResponseWriter) (string, error) {
	now := s.now()
	sessionID := uuid.New().String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cookieLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
		SessionID: sessionID,
	}

	if err := s.store.Set(ctx, sessionID, claims); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GetSessionCookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(cookieLifetime),
	})

	log.Debug().Str("session_id", sessionID).Msg("Created session")
	return sessionID, nil
}

// ValidateSession checks if a valid session cookie exists and returns the claims
func (s *Service) ValidateSession(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	claims, err := parseToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	// A signed cookie whose session was dropped from the store is stale.
	stored, err := s.store.Get(r.Context(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	return claims, nil
}

// ClearSession removes the session cookie and from storage
func (s *Service) ClearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(config.GetSessionCookieName()); err == nil {
		if claims, err := parseToken(cookie.Value); err == nil {
			_ = s.store.Delete(r.Context(), claims.SessionID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GetSessionCookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func parseToken(value string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.GetJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
