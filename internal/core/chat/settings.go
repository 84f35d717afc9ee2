package chat

import (
	"log/slog"

	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

// SetUserInput replaces the pending input text.
func (s *Store) SetUserInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInput = text
}

// ClearError clears the displayed error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// SetSelectedModel switches the active model and loads its persisted
// settings, falling back to defaults when none were saved.
func (s *Store) SetSelectedModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedModel = model
	s.loadModelSettingsLocked()
}

func (s *Store) loadModelSettingsLocked() {
	settings := models.DefaultModelSettings()
	if s.selectedModel != "" {
		s.storage.LoadSetting(storage.ModelSettingsKey(s.selectedModel), &settings)
	}
	s.temperature = settings.Temperature
	s.maxTokens = settings.MaxTokens
}

// SetTemperature updates the sampling temperature and persists the
// model's settings immediately.
func (s *Store) SetTemperature(temperature float64) {
	s.mu.Lock()
	s.temperature = temperature
	s.mu.Unlock()

	s.SaveModelSettings()
}

// SetMaxTokens stages a max-token cap for the active model; nil lifts
// the cap. Staged only: call SaveModelSettings to persist.
func (s *Store) SetMaxTokens(maxTokens *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxTokens = maxTokens
}

// SaveModelSettings persists the active model's settings under its
// per-model key. No-op without a selected model.
func (s *Store) SaveModelSettings() {
	s.mu.Lock()
	model := s.selectedModel
	settings := models.ModelSettings{Temperature: s.temperature, MaxTokens: s.maxTokens}
	s.mu.Unlock()

	if model == "" {
		return
	}
	if err := s.storage.SaveSetting(storage.ModelSettingsKey(model), settings); err != nil {
		slog.Warn("model settings persist failed", "model", model, "error", err)
	}
}

// SetSystemMessage replaces the system message for the current session
// and for sessions created from now on. The transcript's system entry
// is rewritten in place, or inserted at the front if the session
// somehow lost it.
func (s *Store) SetSystemMessage(text string) {
	s.mu.Lock()
	s.systemMessage = text
	if i := systemIndex(s.messages); i >= 0 {
		s.messages[i].Text = text
	} else {
		s.messages = append([]models.ChatMessage{{Role: models.RoleSystem, Text: text}}, s.messages...)
	}
	if s.current != nil {
		s.current.SystemMessage = text
	}
	s.syncCurrentLocked()
	s.mu.Unlock()

	if err := s.storage.SaveSetting(storage.KeySystemMessage, text); err != nil {
		slog.Warn("system message persist failed", "error", err)
	}
	s.persistSessions()
}

func systemIndex(messages []models.ChatMessage) int {
	for i, m := range messages {
		if m.IsSystem() {
			return i
		}
	}
	return -1
}

// ToggleTheme flips between the dark and light palettes and persists
// the preference.
func (s *Store) ToggleTheme() {
	s.mu.Lock()
	s.darkMode = !s.darkMode
	theme := "light"
	if s.darkMode {
		theme = "dark"
	}
	s.mu.Unlock()

	if err := s.storage.SaveSetting(storage.KeyTheme, theme); err != nil {
		slog.Warn("theme persist failed", "error", err)
	}
}
