package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ApologyText replaces the answer whenever the assistant could not be reached.
const ApologyText = "I'm sorry, I encountered an error. Please try again."

// Message is one entry of a conversation. Messages are never modified once
// appended to a conversation.
type Message struct {
	ID            string    `json:"id"`
	Role          Role      `json:"role"`
	Content       string    `json:"content"`
	RelevantParts []Part    `json:"relevant_parts"`
	IsError       bool      `json:"is_error"`
	CreatedAt     time.Time `json:"created_at"`
}

func newMessage(role Role, content string, parts []Part) Message {
	if parts == nil {
		parts = []Part{}
	}
	return Message{
		ID:            uuid.NewString(),
		Role:          role,
		Content:       content,
		RelevantParts: parts,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewUserMessage wraps the raw text a user submitted
func NewUserMessage(content string) Message {
	return newMessage(RoleUser, content, nil)
}

// NewAssistantMessage wraps a successful answer and its parts
func NewAssistantMessage(content string, parts []Part) Message {
	return newMessage(RoleAssistant, content, parts)
}

// NewErrorMessage returns the assistant message shown when a request failed
func NewErrorMessage() Message {
	msg := newMessage(RoleAssistant, ApologyText, nil)
	msg.IsError = true
	return msg
}

// IsAssistant reports whether the message was authored by the assistant
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}
