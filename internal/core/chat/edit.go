package chat

import (
	"context"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// StartEdit opens an inline edit on the message at index, seeding the
// edit buffer with its current text. Out-of-range indexes are ignored.
func (s *Store) StartEdit(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.messages) {
		return
	}
	s.editIndex = index
	s.editText = s.messages[index].Text
}

// SetEditText updates the edit buffer.
func (s *Store) SetEditText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editText = text
}

// CancelEdit discards the active edit without touching the transcript.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editIndex = -1
	s.editText = ""
}

// SaveEdit commits the edit buffer into the message at index. Only the
// index the edit was opened on is accepted. Editing the system message
// also updates the session's system message, so new sends pick it up.
func (s *Store) SaveEdit(index int) {
	s.mu.Lock()
	if s.editIndex != index || index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return
	}

	s.messages[index].Text = s.editText
	if s.messages[index].IsSystem() {
		s.systemMessage = s.editText
		if s.current != nil {
			s.current.SystemMessage = s.editText
		}
	}
	s.editIndex = -1
	s.editText = ""
	s.syncCurrentLocked()
	s.mu.Unlock()

	s.persistSessions()
}

// DeleteMessage removes the message at index. The system message is
// never removed: deleting it resets its text to the default instead, so
// the transcript always keeps at least one message. An active edit on
// the deleted message is dropped; edits further down shift with the
// transcript.
func (s *Store) DeleteMessage(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return
	}

	if s.messages[index].IsSystem() {
		s.messages[index].Text = models.DefaultSystemMessage
		s.systemMessage = models.DefaultSystemMessage
		if s.current != nil {
			s.current.SystemMessage = models.DefaultSystemMessage
		}
		if s.editIndex == index {
			s.editIndex = -1
			s.editText = ""
		}
	} else {
		s.messages = append(s.messages[:index], s.messages[index+1:]...)
		switch {
		case s.editIndex == index:
			s.editIndex = -1
			s.editText = ""
		case s.editIndex > index:
			s.editIndex--
		}
	}
	s.syncCurrentLocked()
	s.mu.Unlock()

	s.persistSessions()
}

// ResendMessage truncates the transcript to just before the user
// message at index, refills the input with its text, and sends again.
// Everything from that message on is replaced by the new exchange.
func (s *Store) ResendMessage(ctx context.Context, index int) {
	s.mu.Lock()
	if s.sending || index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return
	}
	msg := s.messages[index]
	if msg.Role != models.RoleUser {
		s.mu.Unlock()
		return
	}

	s.editIndex = -1
	s.editText = ""
	s.messages = s.messages[:index]
	s.userInput = msg.Text
	s.mu.Unlock()

	s.SendMessage(ctx)
}
