package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the caller's authentication state. The zero value is logged
// out.
type Session struct {
	AccessToken string `json:"accessToken,omitempty"`
	User        *User  `json:"user,omitempty"`
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != ""
}

func (s *Session) Clear() {
	s.AccessToken = ""
	s.User = nil
}

// LoadSession reads a session saved with Save. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)

	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &s, nil
}

// Save writes the session with owner-only permissions.
func (s *Session) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	return os.WriteFile(path, raw, 0o600)
}
