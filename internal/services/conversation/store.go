package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/infrastructure/redis"
)

// StateLifetime matches the session lifetime: conversations never outlive
// the session that owns them.
const StateLifetime = 1 * time.Hour

const keyPrefix = "conversation:"

// Store persists conversation state for the lifetime of a session.
type Store interface {
	// Load returns nil, nil when no state is stored for id.
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	redisService *redis.Service
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// sweeper is implemented by stores that must drop expired entries themselves.
type sweeper interface {
	Sweep() int
}

// NewStore uses redis when a connected service is supplied and memory otherwise.
func NewStore(redisService *redis.Service) Store {
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err == nil {
			log.Info().Msg("Using Redis for conversation storage")
			return &RedisStore{redisService: redisService}
		}
		log.Warn().Msg("Redis unreachable - falling back to in-memory conversation storage")
	} else {
		log.Info().Msg("Using in-memory conversation storage")
	}
	return NewMemoryStore()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Redis Store implementation
func (rs *RedisStore) Save(ctx context.Context, id string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return rs.redisService.Set(ctx, keyPrefix+id, string(data), StateLifetime)
}

func (rs *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	data, err := rs.redisService.Get(ctx, keyPrefix+id)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &state, nil
}

func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	return rs.redisService.Delete(ctx, keyPrefix+id)
}

// Memory Store implementation
func (ms *MemoryStore) Save(ctx context.Context, id string, state State) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[id] = memoryEntry{state: state, expiresAt: ms.now().Add(StateLifetime)}
	return nil
}

func (ms *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	entry, exists := ms.entries[id]
	if !exists || !ms.now().Before(entry.expiresAt) {
		return nil, nil
	}
	state := entry.state
	return &state, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, id)
	return nil
}

// Sweep drops expired conversations and returns how many were removed.
func (ms *MemoryStore) Sweep() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for id, entry := range ms.entries {
		if !now.Before(entry.expiresAt) {
			delete(ms.entries, id)
			removed++
		}
	}
	return removed
}
