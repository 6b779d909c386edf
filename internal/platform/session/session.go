// Package session holds the authenticated identity for the current user:
// bearer token, role, and username, persisted to a small JSON state file so a
// login survives across invocations. It is the durable-storage half of the
// client; expiry is never checked here. A 401 from the backend is the only
// signal that a session has ended.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// State is the persisted session payload.
type State struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Store owns the session state file. All mutators write through to disk so
// that every process observes the same identity.
type Store struct {
	mu     sync.Mutex
	path   string
	state  *State
	logger zerolog.Logger
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "carebook", "session.json"), nil
}

// Load rehydrates the session from disk. A missing file means no session and
// is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.state = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}

	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("parse session file: %w", err)
	}
	if st.Token == "" || st.Role == "" {
		s.state = nil
		return nil
	}
	s.state = &st
	return nil
}

// Login persists the credentials and marks the session active.
func (s *Store) Login(token, role, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &State{Token: token, Role: role, Username: username}
	if err := s.write(st); err != nil {
		return err
	}
	s.state = st
	s.logger.Info().Str("username", username).Str("role", role).Msg("session started")
	return nil
}

// Logout clears all credentials and resets to unauthenticated.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear("session ended")
}

// Expire clears the session in response to a 401. It is the gateway's hook
// and is identical to logout except for the log line.
func (s *Store) Expire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear("session expired by server")
}

// Current returns the active session, if any.
func (s *Store) Current() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return State{}, false
	}
	return *s.state, true
}

// Token returns the bearer token for outbound calls.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return "", false
	}
	return s.state.Token, true
}

// Claims is the subset of bearer-token claims useful for display.
type Claims struct {
	UserID    int64
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Claims decodes the bearer token without verifying its signature. The
// claims are display-only; the server does its own verification on every
// call and never trusts the client's reading.
func (s *Store) Claims() (*Claims, error) {
	st, ok := s.Current()
	if !ok {
		return nil, errors.New("no active session")
	}

	var mc jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(st.Token, &mc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	c := &Claims{Username: st.Username, Role: st.Role}
	if v, ok := mc["username"].(string); ok && v != "" {
		c.Username = v
	}
	if v, ok := mc["role"].(string); ok && v != "" {
		c.Role = v
	}
	switch v := mc["user_id"].(type) {
	case float64:
		c.UserID = int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			c.UserID = n
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func (s *Store) write(st *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *Store) clear(reason string) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	if s.state != nil {
		s.logger.Info().Str("username", s.state.Username).Msg(reason)
	}
	s.state = nil
	return nil
}
