package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KVFile is the flat key-value fallback tier: a single JSON object on
// disk, rewritten atomically on every set. It is deliberately dumb; it
// exists so session data survives even when SQLite is unavailable.
type KVFile struct {
	mu   sync.Mutex
	path string
}

// NewKVFile creates a fallback store at the given path. The file is
// created lazily on first write.
func NewKVFile(path string) *KVFile {
	return &KVFile{path: path}
}

// Set writes a raw JSON value under key.
func (k *KVFile) Set(key string, value json.RawMessage) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readLocked()
	if err != nil {
		return err
	}
	data[key] = value
	return k.writeLocked(data)
}

// Get reads the raw JSON value under key. The boolean reports presence.
func (k *KVFile) Get(key string) (json.RawMessage, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readLocked()
	if err != nil {
		return nil, false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KVFile) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readLocked()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return k.writeLocked(data)
}

func (k *KVFile) readLocked() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(k.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fallback store: %w", err)
	}

	data := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// A corrupt fallback file is treated as empty rather than
		// wedging every storage operation behind a parse error.
		return map[string]json.RawMessage{}, nil
	}
	return data, nil
}

func (k *KVFile) writeLocked(data map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(k.path), 0755); err != nil {
		return fmt.Errorf("create fallback dir: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fallback store: %w", err)
	}

	// Write to a temp file and rename so readers never see a torn file
	tmp, err := os.CreateTemp(filepath.Dir(k.path), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write fallback store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), k.path)
}
