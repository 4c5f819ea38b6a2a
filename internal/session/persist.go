package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoSession is returned by a Persister when nothing is stored.
var ErrNoSession = errors.New("no session stored")

// State is the durable form of a session. Token and permissions are always
// written and cleared together.
type State struct {
	Token       string   `json:"token"`
	Permissions []string `json:"permissions"`
}

// Persister is the durable storage behind a Store.
type Persister interface {
	// Load returns the stored state or ErrNoSession.
	Load() (*State, error)
	// Save replaces the stored state.
	Save(state *State) error
	// Clear removes the stored state. Clearing an empty store is not an error.
	Clear() error
}

const sessionFile = "session.json"

// FileStore persists the session as a single JSON document on the local filesystem.
type FileStore struct {
	baseDir string
}

var _ Persister = (*FileStore)(nil)

// NewFileStore creates a file persister rooted at baseDir.
// If baseDir is empty, uses ~/.backoffice/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".backoffice")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session file store initialized")

	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, sessionFile)
}

func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if state.Token == "" {
		return nil, ErrNoSession
	}

	return &state, nil
}

// Save writes the session atomically: a temp file is written and renamed over
// the previous one, so a reader never sees a token without its permissions.
func (s *FileStore) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// each writer gets its own temp file so concurrent invocations never
	// rename a half written document into place
	tmp, err := os.CreateTemp(s.baseDir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to set session permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, s.Path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

var _ Persister = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory persister.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return nil, ErrNoSession
	}

	clone := State{Token: m.state.Token, Permissions: append([]string(nil), m.state.Permissions...)}
	return &clone, nil
}

func (m *MemoryStore) Save(state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := State{Token: state.Token, Permissions: append([]string(nil), state.Permissions...)}
	m.state = &clone
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = nil
	return nil
}
