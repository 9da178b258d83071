// Package client carries the storefront's client-side contracts: the
// persisted session, the route guard, the API client and the cart.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// User is the wire shape of an authenticated user.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session holds the authenticated state persisted across runs. It is owned
// explicitly by the SessionStore, never read from ambient global state.
type Session struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  *User  `json:"user,omitempty"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// SessionStore persists the session as plain JSON under a fixed filename.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store rooted at the given state directory.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{path: filepath.Join(dir, "session.json")}
}

// Load reads the persisted session. A missing file yields an empty,
// unauthenticated session rather than an error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as logged out.
		return &Session{}, nil
	}
	return &sess, nil
}

// Save persists the session.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is not an
// error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
