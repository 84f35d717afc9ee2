// Package chat is the session store: the single owner of all
// conversation state. It coordinates the persistence facade and the
// completion client, and presentation adapters render exclusively from
// its snapshots.
package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pilotchat/pilotchat/internal/core/llm"
	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

// fallbackModel is used when neither a selection nor a listing is
// available.
const fallbackModel = "gpt-4o"

// Store owns the session list, the active transcript, and all settings
// state. All exported methods are safe for concurrent use; mutations
// between I/O points are atomic with respect to Snapshot.
type Store struct {
	mu      sync.Mutex
	storage *storage.Store
	client  *llm.Client

	sessions  []*models.Session
	currentID string
	current   *models.Session

	// messages mirrors current.History and is the live transcript; the
	// two diverge only while a response is streaming.
	messages  []models.ChatMessage
	userInput string
	sending   bool
	lastErr   string

	availableModels []string
	selectedModel   string
	temperature     float64
	maxTokens       *int

	editIndex int // -1 when no edit is active
	editText  string

	systemMessage string
	darkMode      bool

	usage        *models.UsageInfo
	loadingUsage bool
}

// New creates an uninitialized store. Call Initialize before use.
func New(store *storage.Store, client *llm.Client) *Store {
	return &Store{
		storage:       store,
		client:        client,
		temperature:   1.0,
		editIndex:     -1,
		systemMessage: models.DefaultSystemMessage,
	}
}

// Initialize restores persisted state and discovers models. It never
// fails: every step degrades to a sensible default. Runs once at
// startup.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	var theme string
	if s.storage.LoadSetting(storage.KeyTheme, &theme) {
		s.darkMode = theme == "dark"
	}
	s.mu.Unlock()

	// Model discovery happens outside the lock; nothing else runs yet
	names := s.client.ListModels(ctx)

	s.mu.Lock()
	s.availableModels = names
	if len(names) > 0 {
		s.selectedModel = names[0]
	} else {
		var last string
		if s.storage.LoadSetting(storage.KeyLastModel, &last) {
			s.selectedModel = last
		}
	}
	if s.selectedModel != "" {
		s.loadModelSettingsLocked()
	}

	sessions := s.storage.LoadSessions()
	if len(sessions) == 0 {
		var saved string
		if s.storage.LoadSetting(storage.KeySystemMessage, &saved) && saved != "" {
			s.systemMessage = saved
		}
		session := models.NewSession(s.systemMessage)
		s.sessions = []*models.Session{session}
		s.adoptLocked(session)
	} else {
		s.sessions = sessions
		s.adoptLocked(sessions[0])
	}
	s.mu.Unlock()

	go s.RefreshUsage(context.WithoutCancel(ctx))
}

// adoptLocked makes session current and mirrors its transcript and
// system message into the UI-facing fields.
func (s *Store) adoptLocked(session *models.Session) {
	s.currentID = session.ID
	s.current = session
	s.messages = append([]models.ChatMessage(nil), session.History...)
	if session.SystemMessage != "" {
		s.systemMessage = session.SystemMessage
	}
}

// NewChat creates a fresh session seeded with the current system
// message, prepends it to the list, and makes it current.
func (s *Store) NewChat() {
	s.mu.Lock()
	session := models.NewSession(s.systemMessage)
	s.sessions = append([]*models.Session{session}, s.sessions...)
	s.adoptLocked(session)
	s.mu.Unlock()

	s.persistSessions()
}

// SwitchSession makes the session with the given id current. Pure state
// reassignment from the in-memory list; no I/O.
func (s *Store) SwitchSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ID == id {
			s.adoptLocked(session)
			return
		}
	}
}

// DeleteSession removes a session. Deleting the last remaining session
// is refused; if the current session is deleted, the new list head
// becomes current.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	if len(s.sessions) <= 1 {
		s.mu.Unlock()
		return
	}

	kept := s.sessions[:0]
	removed := false
	for _, session := range s.sessions {
		if session.ID == id {
			removed = true
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	if !removed {
		s.mu.Unlock()
		return
	}
	if s.currentID == id {
		s.adoptLocked(s.sessions[0])
	}
	s.mu.Unlock()

	s.persistSessions()
}

// EffectiveModel resolves the model a send would use: the selection,
// else the first available model, else a hard-coded fallback.
func (s *Store) EffectiveModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveModelLocked()
}

func (s *Store) effectiveModelLocked() string {
	if s.selectedModel != "" {
		return s.selectedModel
	}
	if len(s.availableModels) > 0 {
		return s.availableModels[0]
	}
	return fallbackModel
}

// syncCurrentLocked writes the live transcript back into the current
// session and stamps it.
func (s *Store) syncCurrentLocked() {
	if s.current == nil {
		return
	}
	s.current.History = append([]models.ChatMessage(nil), s.messages...)
	s.current.LastUpdated = time.Now()
}

// persistSessions saves the full session list. Storage failures are
// logged and absorbed; they never surface to the UI.
//
// Sessions are deep-copied under the lock: the save serializes titles
// and histories outside it, and a concurrent edit or a finishing send
// rewrites those same fields.
func (s *Store) persistSessions() {
	s.mu.Lock()
	sessions := make([]*models.Session, len(s.sessions))
	for i, session := range s.sessions {
		sessions[i] = session.Clone()
	}
	s.mu.Unlock()

	if err := s.storage.SaveSessions(sessions); err != nil {
		slog.Warn("session persist failed", "error", err)
	}
}

// RefreshUsage re-queries the usage snapshot. Idempotent no-op while a
// refresh is already in flight; failures store a nil snapshot.
func (s *Store) RefreshUsage(ctx context.Context) {
	s.mu.Lock()
	if s.loadingUsage {
		s.mu.Unlock()
		return
	}
	s.loadingUsage = true
	s.mu.Unlock()

	usage := s.client.GetUsage(ctx)

	s.mu.Lock()
	s.usage = usage
	s.loadingUsage = false
	s.mu.Unlock()
}
