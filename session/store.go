package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vereint/vereint-go/auth"
)

// State is the persisted session: the token bundle plus minimal identity
// markers kept alongside it so a restart can route before any network call.
type State struct {
	Tokens    auth.Tokens     `json:"tokens"`
	Entity    auth.EntityType `json:"entity,omitempty"`
	SubjectID string          `json:"subjectId,omitempty"`
}

func (s State) empty() bool {
	return s.Tokens.AccessToken == "" && s.Tokens.RefreshToken == ""
}

// Store persists session state across process restarts.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// FileStore keeps the session in a JSON file, created with owner-only
// permissions. Writes go through a temp file and rename so a crash never
// leaves a truncated session behind.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore rooted at path. Parent directories are
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted state. A missing file is an empty session, not an
// error.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt session files are treated as logged-out.
		return State{}, nil
	}
	return state, nil
}

// Save writes the state atomically.
func (s *FileStore) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the persisted session. Clearing an absent file succeeds.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore holds session state in memory, for tests and ephemeral use.
type MemoryStore struct {
	mu    sync.Mutex
	state State
	set   bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Load returns the last saved state.
func (s *MemoryStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return State{}, nil
	}
	return s.state, nil
}

// Save records the state.
func (s *MemoryStore) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.set = true
	return nil
}

// Clear drops the state.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.set = false
	return nil
}
