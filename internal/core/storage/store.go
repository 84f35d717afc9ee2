// Package storage composes the two persistence tiers behind one facade:
// a SQLite structured store and a flat JSON key-value file. The primary
// tier is best-effort; every operation falls back to the flat file when
// SQLite is unavailable or failing, trading atomicity for availability.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pilotchat/pilotchat/internal/core/db"
	"github.com/pilotchat/pilotchat/internal/core/models"
)

// Well-known keys in the fallback namespace. The structured settings
// table uses the same names so either tier can satisfy a read.
const (
	KeySessions      = "CHAT_SESSIONS"
	KeyLastModel     = "LAST_MODEL"
	KeySystemMessage = "SYSTEM_MESSAGE"
	KeyTheme         = "THEME_PREFERENCE"
)

// ModelSettingsKey returns the settings key for a model's sampling params.
func ModelSettingsKey(model string) string {
	return "MODEL_SETTINGS::" + model
}

// Store is the persistence facade used by the chat store.
type Store struct {
	primary  *db.DB // nil when the structured tier failed to open
	fallback *KVFile
}

// Open initializes both tiers under dir. A structured-tier failure is
// logged and absorbed; the fallback tier always works, so Open never
// fails.
func Open(dir string) *Store {
	s := &Store{
		fallback: NewKVFile(filepath.Join(dir, "fallback.json")),
	}

	primary, err := db.New(filepath.Join(dir, "sessions.db"))
	if err != nil {
		slog.Warn("structured store unavailable, using fallback only", "error", err)
		return s
	}
	s.primary = primary
	return s
}

// Close releases the structured tier, if it opened.
func (s *Store) Close() error {
	if s.primary == nil {
		return nil
	}
	return s.primary.Close()
}

// HasPrimary reports whether the structured tier is available.
func (s *Store) HasPrimary() bool {
	return s.primary != nil
}

// SaveSessions persists the full session list, replacing whatever was
// stored before. Sessions without an id are rejected up front.
func (s *Store) SaveSessions(sessions []*models.Session) error {
	for _, sess := range sessions {
		if err := sess.Validate(); err != nil {
			return fmt.Errorf("refusing to save: %w", err)
		}
	}

	if s.primary != nil {
		err := s.primary.ReplaceSessions(sessions)
		if err == nil {
			return nil
		}
		slog.Warn("structured session save failed, falling back", "error", err)
	}

	encoded, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return s.fallback.Set(KeySessions, encoded)
}

// LoadSessions returns the stored session list, preferring the
// structured tier. Both tiers missing yields an empty list, not an error.
func (s *Store) LoadSessions() []*models.Session {
	if s.primary != nil {
		sessions, err := s.primary.LoadSessions()
		if err != nil {
			slog.Warn("structured session load failed, falling back", "error", err)
		} else if len(sessions) > 0 {
			return sessions
		}
	}

	encoded, ok, err := s.fallback.Get(KeySessions)
	if err != nil || !ok {
		return nil
	}

	var sessions []*models.Session
	if err := json.Unmarshal(encoded, &sessions); err != nil {
		slog.Warn("fallback session list unreadable", "error", err)
		return nil
	}
	return sessions
}

// SaveSetting upserts a named setting with the two-tier fallback.
func (s *Store) SaveSetting(key string, value interface{}) error {
	if s.primary != nil {
		err := s.primary.SaveSetting(key, value)
		if err == nil {
			return nil
		}
		slog.Warn("structured setting save failed, falling back", "key", key, "error", err)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	return s.fallback.Set(key, encoded)
}

// LoadSetting reads a named setting into out, preferring the structured
// tier. The boolean reports whether either tier had the key.
func (s *Store) LoadSetting(key string, out interface{}) bool {
	if s.primary != nil {
		found, err := s.primary.LoadSetting(key, out)
		if err != nil {
			slog.Warn("structured setting load failed, falling back", "key", key, "error", err)
		} else if found {
			return true
		}
	}

	encoded, ok, err := s.fallback.Get(key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal(encoded, out); err != nil {
		slog.Warn("fallback setting unreadable", "key", key, "error", err)
		return false
	}
	return true
}

// Clear empties the session collection in both tiers. Settings survive.
func (s *Store) Clear() error {
	var firstErr error
	if s.primary != nil {
		if err := s.primary.ClearSessions(); err != nil {
			firstErr = err
		}
	}
	if err := s.fallback.Delete(KeySessions); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
