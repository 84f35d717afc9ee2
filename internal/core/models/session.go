package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultSystemMessage seeds new sessions and is the text a deleted
// system message reverts to.
const DefaultSystemMessage = "You are a helpful assistant."

// DefaultTitle is shown until a session receives its first user message.
const DefaultTitle = "New chat"

// Session represents one independent conversation thread.
//
// SystemMessage is a denormalized copy of the system entry's text in
// History; the chat store keeps the two in sync.
type Session struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	History       []ChatMessage `json:"history"`
	LastUpdated   time.Time     `json:"lastUpdated"`
	SystemMessage string        `json:"systemMessage,omitempty"`
}

// NewSession creates a session whose history holds a single system message.
func NewSession(systemMessage string) *Session {
	if systemMessage == "" {
		systemMessage = DefaultSystemMessage
	}
	return &Session{
		ID:            uuid.NewString(),
		Title:         DefaultTitle,
		History:       []ChatMessage{{Role: RoleSystem, Text: systemMessage}},
		LastUpdated:   time.Now(),
		SystemMessage: systemMessage,
	}
}

// Validate checks that the session has the fields storage requires.
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	return nil
}

// SystemIndex returns the index of the system message in History, or -1.
func (s *Session) SystemIndex() int {
	for i, m := range s.History {
		if m.Role == RoleSystem {
			return i
		}
	}
	return -1
}

// FirstUserMessage returns the first user-role message, if any.
func (s *Session) FirstUserMessage() (ChatMessage, bool) {
	for _, m := range s.History {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return ChatMessage{}, false
}

// Clone returns a deep copy. History is copied so callers can mutate the
// result without aliasing the original transcript.
func (s *Session) Clone() *Session {
	c := *s
	c.History = append([]ChatMessage(nil), s.History...)
	return &c
}
