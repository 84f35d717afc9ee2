package chat

import (
	"time"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// SessionSummary is the sidebar view of one session.
type SessionSummary struct {
	ID          string
	Title       string
	LastUpdated time.Time
	Messages    int
}

// Snapshot is a point-in-time copy of everything a renderer needs.
// Slices are copied so the caller can hold one across frames without
// racing the store.
type Snapshot struct {
	Sessions  []SessionSummary
	CurrentID string

	Messages  []models.ChatMessage
	UserInput string
	Sending   bool
	Err       string

	AvailableModels []string
	SelectedModel   string
	Temperature     float64
	MaxTokens       *int

	EditIndex int
	EditText  string

	SystemMessage string
	DarkMode      bool

	Usage        *models.UsageInfo
	LoadingUsage bool
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]SessionSummary, len(s.sessions))
	for i, session := range s.sessions {
		summaries[i] = SessionSummary{
			ID:          session.ID,
			Title:       session.Title,
			LastUpdated: session.LastUpdated,
			Messages:    len(session.History),
		}
	}

	snap := Snapshot{
		Sessions:        summaries,
		CurrentID:       s.currentID,
		Messages:        append([]models.ChatMessage(nil), s.messages...),
		UserInput:       s.userInput,
		Sending:         s.sending,
		Err:             s.lastErr,
		AvailableModels: append([]string(nil), s.availableModels...),
		SelectedModel:   s.selectedModel,
		Temperature:     s.temperature,
		EditIndex:       s.editIndex,
		EditText:        s.editText,
		SystemMessage:   s.systemMessage,
		DarkMode:        s.darkMode,
		LoadingUsage:    s.loadingUsage,
	}
	if s.maxTokens != nil {
		v := *s.maxTokens
		snap.MaxTokens = &v
	}
	if s.usage != nil {
		u := *s.usage
		snap.Usage = &u
	}
	return snap
}
