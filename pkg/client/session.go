package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is what a signed-in client remembers between calls.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
}

// SessionStore persists the current session. Load returns a zero Session when nobody is signed in.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemorySession keeps the session for the lifetime of the process.
type MemorySession struct {
	mu      sync.Mutex
	session Session
}

func (m *MemorySession) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemorySession) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemorySession) Clear() error {
	return m.Save(Session{})
}

// FileSession stores the session as JSON in a file readable only by its owner.
type FileSession struct {
	Path string
}

// DefaultSessionPath is ~/.config/money_tracker/session.json or the platform equivalent.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "money_tracker", "session.json"), nil
}

func (f FileSession) Load() (Session, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (f FileSession) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f FileSession) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
