// Package conversation owns the chat state machine: validation, the single
// in-flight request, and the append-only message history of a session.
package conversation

import (
	"github.com/partselect/partchat/internal/domain/chat/models"
)

// Phase is the controller-level state of a conversation.
type Phase int

const (
	Idle Phase = iota
	AwaitingResponse
)

func (p Phase) String() string {
	if p == AwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// State is a snapshot of one conversation. Update never modifies a State in
// place; every transition returns a new value.
type State struct {
	Messages        []models.Message `json:"messages"`
	Input           string           `json:"input"`
	IsLoading       bool             `json:"is_loading"`
	BannerError     string           `json:"banner_error,omitempty"`
	ValidationError string           `json:"validation_error,omitempty"`
}

// NewState starts a conversation with the assistant greeting.
func NewState(greeting string) State {
	s := State{Messages: []models.Message{}}
	if greeting != "" {
		s.Messages = append(s.Messages, models.NewAssistantMessage(greeting, nil))
	}
	return s
}

func (s State) Phase() Phase {
	if s.IsLoading {
		return AwaitingResponse
	}
	return Idle
}

func (s State) clone() State {
	next := s
	next.Messages = make([]models.Message, len(s.Messages), len(s.Messages)+1)
	copy(next.Messages, s.Messages)
	return next
}
