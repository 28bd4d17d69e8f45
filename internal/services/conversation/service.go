package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/domain/chat/models"
)

// Service hands out one Controller per session.
type Service struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	sender      Sender
	store       Store
	policy      Policy
	greeting    string
}

func NewService(sender Sender, store Store, widget *config.WidgetConfig) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{
		controllers: make(map[string]*Controller),
		sender:      sender,
		store:       store,
		policy: Policy{
			MinQueryLength: widget.MinQueryLength,
			Prompts:        append([]string(nil), widget.Prompts...),
		},
		greeting: widget.Greeting,
	}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Controller returns the controller for sessionID, restoring stored state or
// starting a new conversation.
func (s *Service) Controller(ctx context.Context, sessionID string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[sessionID]; ok {
		return c, nil
	}

	stored, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var initial State
	switch {
	case stored == nil:
		initial = NewState(s.greeting)
	case stored.IsLoading:
		// The process that owned the request is gone; close the request
		// out so the conversation is usable again.
		log.Warn().Str("session_id", sessionID).Msg("Recovering conversation with an orphaned request")
		initial, _ = Update(*stored, Resolved{Message: models.NewErrorMessage()}, s.policy)
	default:
		initial = *stored
	}

	c := NewController(sessionID, initial, s.policy, s.sender, s.store)
	s.controllers[sessionID] = c
	return c, nil
}

// Forget drops a session's conversation from memory and storage. A request
// still in flight resolves into the detached controller and is not persisted.
func (s *Service) Forget(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	c := s.controllers[sessionID]
	delete(s.controllers, sessionID)
	s.mu.Unlock()

	if c != nil {
		c.detach()
	}
	return s.store.Delete(ctx, sessionID)
}

// Prune evicts controllers idle for longer than maxIdle. Their state stays
// in the store and is restored on the next request. Stores that hold
// entries in process also drop expired conversations here.
func (s *Service) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	evicted := 0
	for id, c := range s.controllers {
		lastUsed, idle := c.idleSince()
		if idle && lastUsed.Before(cutoff) {
			delete(s.controllers, id)
			evicted++
		}
	}
	expired := 0
	if sw, ok := s.store.(sweeper); ok {
		expired = sw.Sweep()
	}
	if evicted > 0 || expired > 0 {
		log.Debug().Int("evicted", evicted).Int("expired", expired).Msg("Pruned idle conversations")
	}
	return evicted
}

// Wait blocks until every request in flight has resolved.
func (s *Service) Wait() {
	s.mu.Lock()
	controllers := make([]*Controller, 0, len(s.controllers))
	for _, c := range s.controllers {
		controllers = append(controllers, c)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		c.Wait()
	}
}
