package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the durable home of the bearer token. An absent or empty
// token means unauthenticated.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// FileStore keeps the raw token in a single file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the token. A missing file yields "".
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with mode 0600, creating the parent directory
// with mode 0700.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0600)
}

// Delete removes the token file. A missing file is not an error.
func (s *FileStore) Delete() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string

	// SaveErr and DeleteErr are returned by Save and Delete when set.
	SaveErr   error
	DeleteErr error
}

// NewMemoryStore returns a store preloaded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.token = token
	return nil
}

func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.token = ""
	return nil
}
