package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const credFileName = "credentials.json"

// Credentials is the persisted session record. Token and Identity are a
// single atomic unit: they are written together and deleted together.
type Credentials struct {
	Token     string    `json:"token"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists at most one Credentials record.
type Store interface {
	// Load returns the saved record, or (nil, nil) when none exists.
	Load() (*Credentials, error)
	Save(Credentials) error
	Delete() error
}

// FileStore keeps credentials in ~/.taskdeck/credentials.json.
type FileStore struct {
	dir string
}

func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &FileStore{dir: filepath.Join(home, ".taskdeck")}, nil
}

func (s *FileStore) path() string { return filepath.Join(s.dir, credFileName) }

func (s *FileStore) Load() (*Credentials, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &c, nil
}

func (s *FileStore) Save(c Credentials) error {
	// owner-only dir and file
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
