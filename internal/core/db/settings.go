package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// SaveSetting upserts a named setting. Values are stored JSON-encoded.
func (db *DB) SaveSetting(key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(encoded))
	return err
}

// LoadSetting reads a named setting into out. The boolean reports whether
// the key was present.
func (db *DB) LoadSetting(key string, out interface{}) (bool, error) {
	var encoded string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&encoded)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(encoded), out); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}
