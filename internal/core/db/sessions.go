package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// ReplaceSessions atomically swaps the stored session list for the given
// one. Readers observe either the old full set or the new full set.
func (db *DB) ReplaceSessions(sessions []*models.Session) error {
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid session: %w", err)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	for _, s := range sessions {
		history, err := json.Marshal(s.History)
		if err != nil {
			return fmt.Errorf("encode history for %s: %w", s.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO sessions (session_id, title, history, system_message, last_updated)
			VALUES (?, ?, ?, ?, ?)
		`, s.ID, s.Title, string(history), s.SystemMessage, s.LastUpdated.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSessions returns all stored sessions in their original list order.
func (db *DB) LoadSessions() ([]*models.Session, error) {
	rows, err := db.conn.Query(`
		SELECT session_id, title, history, system_message, last_updated
		FROM sessions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		var s models.Session
		var history, lastUpdated string
		if err := rows.Scan(&s.ID, &s.Title, &history, &s.SystemMessage, &lastUpdated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(history), &s.History); err != nil {
			return nil, fmt.Errorf("decode history for %s: %w", s.ID, err)
		}
		if t, err := time.Parse(time.RFC3339Nano, lastUpdated); err == nil {
			s.LastUpdated = t
		} else {
			s.LastUpdated = time.Now()
		}
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// ClearSessions empties the session table. Settings are not touched.
func (db *DB) ClearSessions() error {
	_, err := db.conn.Exec(`DELETE FROM sessions`)
	return err
}
