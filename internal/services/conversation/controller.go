package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

// Sender delivers a query to the assistant. It never fails: transport
// problems come back as an assistant message with IsError set.
type Sender interface {
	Send(ctx context.Context, query string) models.Message
}

// Controller drives one session's conversation. Events are applied one at a
// time under mu, so at most one request is ever in flight.
type Controller struct {
	mu       sync.Mutex
	id       string
	state    State
	policy   Policy
	sender   Sender
	store    Store
	subs     map[int]chan State
	nextSub  int
	lastUsed time.Time
	detached bool
	inflight sync.WaitGroup
}

func NewController(id string, initial State, policy Policy, sender Sender, store Store) *Controller {
	return &Controller{
		id:       id,
		state:    initial,
		policy:   policy,
		sender:   sender,
		store:    store,
		subs:     make(map[int]chan State),
		lastUsed: time.Now(),
	}
}

func (c *Controller) ID() string {
	return c.id
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies an event that has no side effect (input edits, prompt
// selection). Submissions go through Submit.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.(type) {
	case Submitted, Resolved:
		log.Warn().Str("session_id", c.id).Msg("Dispatch ignored a submit or resolve event")
		return c.state
	}

	next, _ := Update(c.state, ev, c.policy)
	c.apply(ctx, next)
	return next
}

// Submit validates text and, when it passes, appends the user message and
// starts the request. It returns the post-submit state without waiting for
// the answer, which arrives through subscribers and the store.
func (c *Controller) Submit(ctx context.Context, text string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsLoading {
		return c.state, ErrRequestInFlight
	}

	next, req := Update(c.state, Submitted{Text: text}, c.policy)
	c.apply(ctx, next)
	if req == nil {
		return next, &ValidationError{Message: next.ValidationError}
	}

	log.Info().
		Str("session_id", c.id).
		Int("message_count", len(next.Messages)).
		Msg("Query submitted")

	// The request outlives the HTTP call that submitted it.
	reqCtx := context.WithoutCancel(ctx)
	c.inflight.Add(1)
	go c.run(reqCtx, req)

	return next, nil
}

func (c *Controller) run(ctx context.Context, req *Request) {
	defer c.inflight.Done()

	msg := c.sender.Send(ctx, req.Query)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, _ := Update(c.state, Resolved{Message: msg}, c.policy)
	c.apply(ctx, next)

	log.Info().
		Str("session_id", c.id).
		Bool("is_error", msg.IsError).
		Int("parts_count", len(msg.RelevantParts)).
		Msg("Query resolved")
}

// apply installs next, persists it and notifies subscribers. Callers hold mu.
func (c *Controller) apply(ctx context.Context, next State) {
	c.state = next
	c.lastUsed = time.Now()

	if c.store != nil && !c.detached {
		if err := c.store.Save(ctx, c.id, next); err != nil {
			log.Error().Err(err).Str("session_id", c.id).Msg("Failed to persist conversation state")
		}
	}

	for _, ch := range c.subs {
		// Keep only the newest state for slow subscribers.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

// Subscribe returns a channel receiving every subsequent state and a
// function that cancels the subscription.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State, 1)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
		})
	}
}

// Wait blocks until the request in flight, if any, has resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// detach stops the controller from persisting further states.
func (c *Controller) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = true
}

func (c *Controller) idleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed, !c.state.IsLoading && len(c.subs) == 0
}
