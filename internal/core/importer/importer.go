// Package importer merges sessions from an exported JSON file into the
// local store. The file format is the same JSON array the fallback tier
// uses, so a fallback file from another machine imports directly.
package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

// Stats reports what an import did.
type Stats struct {
	Imported int
	Skipped  int // already present under the same id
}

// File reads a JSON session list from path and merges it into the
// store. Existing sessions win on id collisions; imported sessions
// without an id get a fresh one.
func File(store *storage.Store, path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("read import file: %w", err)
	}

	incoming, err := decodeSessions(data)
	if err != nil {
		return Stats{}, fmt.Errorf("parse import file: %w", err)
	}

	existing := store.LoadSessions()
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.ID] = true
	}

	var stats Stats
	merged := existing
	for _, s := range incoming {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if seen[s.ID] {
			stats.Skipped++
			continue
		}
		seen[s.ID] = true
		merged = append(merged, s)
		stats.Imported++
	}

	if stats.Imported == 0 {
		return stats, nil
	}
	if err := store.SaveSessions(merged); err != nil {
		return Stats{}, fmt.Errorf("save merged sessions: %w", err)
	}
	return stats, nil
}

// decodeSessions accepts either a bare session array or a whole
// fallback file with the array under its CHAT_SESSIONS key.
func decodeSessions(data []byte) ([]*models.Session, error) {
	var sessions []*models.Session
	arrayErr := json.Unmarshal(data, &sessions)
	if arrayErr == nil {
		return sessions, nil
	}

	var kv map[string]json.RawMessage
	if err := json.Unmarshal(data, &kv); err == nil {
		if raw, ok := kv[storage.KeySessions]; ok {
			if err := json.Unmarshal(raw, &sessions); err == nil {
				return sessions, nil
			}
		}
	}
	return nil, arrayErr
}
