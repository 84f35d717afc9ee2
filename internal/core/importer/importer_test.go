package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

func writeImportFile(t *testing.T, sessions []*models.Session) string {
	t.Helper()
	data, err := json.Marshal(sessions)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_MergesNewSessions(t *testing.T) {
	store := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = store.Close() })

	existing := models.NewSession("")
	existing.Title = "kept"
	if err := store.SaveSessions([]*models.Session{existing}); err != nil {
		t.Fatal(err)
	}

	incoming := models.NewSession("")
	incoming.Title = "imported"
	path := writeImportFile(t, []*models.Session{incoming, existing})

	stats, err := File(store, path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if stats.Imported != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 imported, 1 skipped", stats)
	}

	sessions := store.LoadSessions()
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Title != "kept" {
		t.Errorf("existing session should stay first, got %q", sessions[0].Title)
	}
}

func TestFile_AssignsMissingIDs(t *testing.T) {
	store := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = store.Close() })

	path := writeImportFile(t, []*models.Session{{Title: "no id"}})

	stats, err := File(store, path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if stats.Imported != 1 {
		t.Errorf("stats = %+v", stats)
	}

	sessions := store.LoadSessions()
	if len(sessions) != 1 || sessions[0].ID == "" {
		t.Errorf("imported session missing generated id: %+v", sessions)
	}
}

func TestFile_AcceptsFallbackFileShape(t *testing.T) {
	store := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = store.Close() })

	incoming := models.NewSession("")
	incoming.Title = "from fallback"
	sessionsJSON, err := json.Marshal([]*models.Session{incoming})
	if err != nil {
		t.Fatal(err)
	}
	wrapped, err := json.Marshal(map[string]json.RawMessage{
		storage.KeySessions: sessionsJSON,
		"THEME_PREFERENCE":  json.RawMessage(`"dark"`),
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fallback.json")
	if err := os.WriteFile(path, wrapped, 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := File(store, path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if stats.Imported != 1 {
		t.Errorf("stats = %+v, want 1 imported", stats)
	}
	sessions := store.LoadSessions()
	if len(sessions) != 1 || sessions[0].Title != "from fallback" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestFile_BadInput(t *testing.T) {
	store := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = store.Close() })

	if _, err := File(store, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := File(store, path); err == nil {
		t.Error("expected error for malformed file")
	}
}
