package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pilotchat/pilotchat/internal/core/llm"
	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

// titleLimit caps session titles derived from the first user message.
const titleLimit = 20

// SendMessage submits the pending input as a user message and streams
// the assistant reply into the transcript. No-op while a send is in
// flight or when the trimmed input is empty; a missing model sets the
// error field without touching the transcript.
//
// Cancelling ctx mid-stream is not an error: whatever text accumulated
// stays in the transcript, including an empty placeholder when nothing
// arrived yet. Any other failure surfaces in the error field and an
// empty trailing assistant message is pruned.
func (s *Store) SendMessage(ctx context.Context) {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return
	}
	input := strings.TrimSpace(s.userInput)
	if input == "" {
		s.mu.Unlock()
		return
	}
	model := s.effectiveModelLocked()
	if model == "" {
		s.lastErr = "select or enter a model first"
		s.mu.Unlock()
		return
	}

	s.sending = true
	s.lastErr = ""
	s.userInput = ""
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Text: input})

	// Request history is fixed before the placeholder goes in, so the
	// empty assistant message is never sent upstream.
	history := append([]models.ChatMessage(nil), s.messages...)
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleAssistant})
	placeholder := len(s.messages) - 1

	req := llm.CompletionRequest{
		Model:       model,
		Messages:    llm.FromHistory(history),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}
	s.mu.Unlock()

	var reply strings.Builder
	err := s.client.StreamCompletion(ctx, req, func(fragment string) {
		reply.WriteString(fragment)
		text := reply.String()

		// Full replace, not append: the builder owns the accumulated
		// text so a re-rendered snapshot is always internally consistent.
		s.mu.Lock()
		if placeholder < len(s.messages) {
			s.messages[placeholder].Text = text
		}
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.sending = false

	switch {
	case err == nil:
		s.syncCurrentLocked()
		s.retitleLocked()
		s.mu.Unlock()

		s.persistSessions()
		if err := s.storage.SaveSetting(storage.KeyLastModel, model); err != nil {
			slog.Warn("last model persist failed", "error", err)
		}
		go s.RefreshUsage(context.WithoutCancel(ctx))

	case llm.IsCancelled(err):
		// Deliberate: a cancelled stream keeps its partial text and
		// reports no error. Nothing is persisted until the next
		// completed operation.
		s.mu.Unlock()

	default:
		s.lastErr = err.Error()
		if last := len(s.messages) - 1; last >= 0 &&
			s.messages[last].Role == models.RoleAssistant && s.messages[last].Text == "" {
			s.messages = s.messages[:last]
		}
		s.mu.Unlock()
	}
}

// retitleLocked derives the session title from the first user message,
// truncated to a display-friendly length. Call after syncCurrentLocked
// so the transcript has been written back.
func (s *Store) retitleLocked() {
	if s.current == nil {
		return
	}
	if msg, ok := s.current.FirstUserMessage(); ok {
		s.current.Title = truncateTitle(msg.Text)
	}
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLimit {
		return text
	}
	return string(runes[:titleLimit]) + "…"
}
