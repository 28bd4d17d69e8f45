package conversation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

const (
	emptyInputMessage = "Please enter a message."
	bannerMessage     = "Something went wrong while contacting the assistant. Please try again."
)

// Policy is the tunable part of the state machine.
type Policy struct {
	MinQueryLength int
	Prompts        []string
}

// Validate returns the user-visible reason text cannot be submitted, or "".
func (p Policy) Validate(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return emptyInputMessage
	}
	if utf8.RuneCountInString(trimmed) < p.MinQueryLength {
		return fmt.Sprintf("Please enter at least %d characters.", p.MinQueryLength)
	}
	return ""
}

// Event is an input to Update.
type Event interface {
	event()
}

// InputChanged replaces the input text.
type InputChanged struct{ Text string }

// PromptSelected copies an example prompt into the input. It never submits.
type PromptSelected struct{ Index int }

// Submitted asks to send Text to the assistant.
type Submitted struct{ Text string }

// Resolved carries the adapter's answer for the request in flight.
type Resolved struct{ Message models.Message }

func (InputChanged) event()   {}
func (PromptSelected) event() {}
func (Submitted) event()      {}
func (Resolved) event()       {}

// Request is the side effect Update asks the caller to perform.
type Request struct {
	Query string
}

// Update applies ev to s and returns the next state. A non-nil Request means
// the caller must send the query and later feed the answer back as Resolved.
func Update(s State, ev Event, p Policy) (State, *Request) {
	switch e := ev.(type) {
	case InputChanged:
		next := s.clone()
		next.Input = e.Text
		return next, nil

	case PromptSelected:
		if e.Index < 0 || e.Index >= len(p.Prompts) {
			return s, nil
		}
		next := s.clone()
		next.Input = p.Prompts[e.Index]
		next.ValidationError = ""
		return next, nil

	case Submitted:
		if s.IsLoading {
			return s, nil
		}
		next := s.clone()
		if reason := p.Validate(e.Text); reason != "" {
			next.ValidationError = reason
			return next, nil
		}
		next.Messages = append(next.Messages, models.NewUserMessage(e.Text))
		next.Input = ""
		next.ValidationError = ""
		next.IsLoading = true
		return next, &Request{Query: e.Text}

	case Resolved:
		if !s.IsLoading {
			return s, nil
		}
		next := s.clone()
		next.Messages = append(next.Messages, e.Message)
		if e.Message.IsError {
			next.BannerError = bannerMessage
		} else {
			next.BannerError = ""
		}
		next.IsLoading = false
		return next, nil
	}

	return s, nil
}
