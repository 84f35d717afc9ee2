package db

func (db *DB) initSchema() error {
	schema := `
	-- Sessions table. seq preserves the caller's list order across a
	-- full replacement; history is the JSON-encoded transcript.
	CREATE TABLE IF NOT EXISTS sessions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		history TEXT NOT NULL DEFAULT '[]',
		system_message TEXT NOT NULL DEFAULT '',
		last_updated TEXT NOT NULL
	);

	-- Secondary lookups; convenience only
	CREATE INDEX IF NOT EXISTS idx_sessions_title ON sessions(title);
	CREATE INDEX IF NOT EXISTS idx_sessions_last_updated ON sessions(last_updated);

	-- Settings table, keyed by name, JSON-encoded values
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}
