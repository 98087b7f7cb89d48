package utils

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Keys mirrored from the list screen. Values are JSON encoded.
const (
	SessionKeySort     = "sort"
	SessionKeyIncluded = "included"
	SessionKeyExcluded = "excluded"
	SessionKeyType     = "type"
	SessionKeyCookies  = "cookies"
)

// SessionStore is a small key/value store persisted as one JSON file.
// An empty path keeps everything in memory.
type SessionStore struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// ---------------- Paths ----------------
func sessionFile() (string, error) {
	if AppConfig.Session.Path != "" {
		return AppConfig.Session.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// OpenSession loads the configured session file, creating nothing until the first write.
func OpenSession() (*SessionStore, error) {
	path, err := sessionFile()
	if err != nil {
		return nil, err
	}
	return OpenSessionAt(path)
}

func OpenSessionAt(path string) (*SessionStore, error) {
	s := &SessionStore{path: path, values: make(map[string]json.RawMessage)}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, err
	}
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	return s, nil
}

// NewMemorySession never touches the disk.
func NewMemorySession() *SessionStore {
	s, _ := OpenSessionAt("")
	return s
}

// ---------------- Access ----------------

// Get decodes the value stored under key into out. It reports false when the key is absent.
func (s *SessionStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, err
	}
	return true, nil
}

// Set stores v under key and writes the file.
func (s *SessionStore) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return s.Save()
}

// Delete removes key and writes the file.
func (s *SessionStore) Delete(key string) error {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.values, key)
	s.mu.Unlock()
	return s.Save()
}

// ---------------- Save ----------------
func (s *SessionStore) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
