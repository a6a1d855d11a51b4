// Package session persists the client's authentication state: the bearer
// token and the cached user profile.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pinhsin/worksite/internal/models"
)

// DefaultPath is the state file used when no explicit path is given.
const DefaultPath = "session.json"

// state is the on-disk layout. Token and profile always travel together:
// they are written and cleared as one value.
type state struct {
	Token   string          `json:"token,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// Store holds the session state in memory and mirrors every mutation to
// a JSON file, so a restart picks up where the previous run stopped.
type Store struct {
	path string

	mu    sync.Mutex
	state state
}

// NewStore creates a Store backed by the file at path.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Load restores the persisted session into memory. A missing or
// unreadable state file yields an empty session, not an error; the user
// simply has to log in again.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		s.state = state{}
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	var st state
	if err := json.NewDecoder(f).Decode(&st); err != nil {
		s.state = state{}
		return nil
	}
	s.state = st
	return nil
}

// save writes the in-memory state to disk. Caller must hold mu.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(&s.state)
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// SetToken stores the bearer token and persists it.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.save()
}

// Profile returns a copy of the cached profile, or nil when absent.
func (s *Store) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Profile == nil {
		return nil
	}
	p := *s.state.Profile
	return &p
}

// SetProfile stores the profile and persists it.
func (s *Store) SetProfile(p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = &p
	return s.save()
}

// Clear drops both token and profile in one step. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state{}
	return s.save()
}

// IsAuthenticated reports whether a token is held in memory. It says
// nothing about whether the server still accepts it.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token != ""
}
