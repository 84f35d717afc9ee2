package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNew(t *testing.T) {
	database := testDB(t)

	// Verify schema initialized
	var count int
	err := database.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('sessions','settings')").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected sessions and settings tables, got %d", count)
	}
}

func TestNew_WALMode(t *testing.T) {
	database := testDB(t)

	var journalMode string
	if err := database.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %s", journalMode)
	}
}

func TestNew_CreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	database, err := New(filepath.Join(dir, "sessions.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestReplaceAndLoadSessions(t *testing.T) {
	database := testDB(t)

	first := models.NewSession("be brief")
	first.Title = "greetings"
	first.History = append(first.History,
		models.ChatMessage{Role: models.RoleUser, Text: "hello"},
		models.ChatMessage{Role: models.RoleAssistant, Text: "hi there"},
	)
	second := models.NewSession("")

	if err := database.ReplaceSessions([]*models.Session{first, second}); err != nil {
		t.Fatalf("ReplaceSessions() error = %v", err)
	}

	loaded, err := database.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d sessions, want 2", len(loaded))
	}

	// List order must survive the round trip
	if loaded[0].ID != first.ID || loaded[1].ID != second.ID {
		t.Errorf("session order not preserved: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].Title != "greetings" {
		t.Errorf("Title = %q", loaded[0].Title)
	}
	if len(loaded[0].History) != 3 {
		t.Fatalf("history length = %d, want 3", len(loaded[0].History))
	}
	if loaded[0].History[2].Text != "hi there" {
		t.Errorf("history[2].Text = %q", loaded[0].History[2].Text)
	}
	if loaded[0].SystemMessage != "be brief" {
		t.Errorf("SystemMessage = %q", loaded[0].SystemMessage)
	}
}

func TestReplaceSessions_ReplacesPriorSet(t *testing.T) {
	database := testDB(t)

	old := models.NewSession("")
	if err := database.ReplaceSessions([]*models.Session{old}); err != nil {
		t.Fatal(err)
	}

	replacement := models.NewSession("")
	if err := database.ReplaceSessions([]*models.Session{replacement}); err != nil {
		t.Fatal(err)
	}

	loaded, err := database.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != replacement.ID {
		t.Errorf("expected only the replacement session, got %d", len(loaded))
	}
}

func TestReplaceSessions_RejectsMissingID(t *testing.T) {
	database := testDB(t)

	bad := models.NewSession("")
	bad.ID = ""
	if err := database.ReplaceSessions([]*models.Session{bad}); err == nil {
		t.Error("expected error for session without id")
	}

	// A failed replace must not clear an existing set
	good := models.NewSession("")
	if err := database.ReplaceSessions([]*models.Session{good}); err != nil {
		t.Fatal(err)
	}
	if err := database.ReplaceSessions([]*models.Session{bad}); err == nil {
		t.Fatal("expected error")
	}
	loaded, _ := database.LoadSessions()
	if len(loaded) != 1 {
		t.Errorf("prior set lost after rejected replace: %d sessions", len(loaded))
	}
}

func TestClearSessions_KeepsSettings(t *testing.T) {
	database := testDB(t)

	if err := database.ReplaceSessions([]*models.Session{models.NewSession("")}); err != nil {
		t.Fatal(err)
	}
	if err := database.SaveSetting("THEME_PREFERENCE", "dark"); err != nil {
		t.Fatal(err)
	}

	if err := database.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() error = %v", err)
	}

	loaded, _ := database.LoadSessions()
	if len(loaded) != 0 {
		t.Errorf("expected no sessions, got %d", len(loaded))
	}

	var theme string
	found, err := database.LoadSetting("THEME_PREFERENCE", &theme)
	if err != nil || !found || theme != "dark" {
		t.Errorf("setting lost by ClearSessions: found=%v theme=%q err=%v", found, theme, err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	database := testDB(t)

	settings := models.ModelSettings{Temperature: 0.7}
	if err := database.SaveSetting("MODEL_SETTINGS::gpt-4o", settings); err != nil {
		t.Fatal(err)
	}

	maxTokens := 4096
	settings.MaxTokens = &maxTokens
	if err := database.SaveSetting("MODEL_SETTINGS::gpt-4o", settings); err != nil {
		t.Fatal(err)
	}

	var loaded models.ModelSettings
	found, err := database.LoadSetting("MODEL_SETTINGS::gpt-4o", &loaded)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("setting not found")
	}
	if loaded.Temperature != 0.7 || loaded.MaxTokens == nil || *loaded.MaxTokens != 4096 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadSetting_Missing(t *testing.T) {
	database := testDB(t)

	var value string
	found, err := database.LoadSetting("NOPE", &value)
	if err != nil {
		t.Fatalf("LoadSetting() error = %v", err)
	}
	if found {
		t.Error("expected found=false for missing key")
	}
}

func TestSessionTimestampRoundTrip(t *testing.T) {
	database := testDB(t)

	s := models.NewSession("")
	s.LastUpdated = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := database.ReplaceSessions([]*models.Session{s}); err != nil {
		t.Fatal(err)
	}

	loaded, err := database.LoadSessions()
	if err != nil {
		t.Fatal(err)
	}
	if !loaded[0].LastUpdated.Equal(s.LastUpdated) {
		t.Errorf("LastUpdated = %v, want %v", loaded[0].LastUpdated, s.LastUpdated)
	}
}
