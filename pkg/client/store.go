// pkg/client/store.go
package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CredentialTTL matches the 7-day auth cookie the dashboard sets.
const CredentialTTL = 7 * 24 * time.Hour

// CredentialStore holds the cached token and user between runs. The token
// and user always live and die together.
type CredentialStore interface {
	SetCredentials(token string, user *User) error
	Token() string
	User() *User
	Clear() error
}

type storedCredentials struct {
	AuthToken   string    `json:"auth_token"`
	UserDetails *User     `json:"user_details,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (c *storedCredentials) expired(now time.Time) bool {
	return c.AuthToken == "" || now.After(c.ExpiresAt)
}

// ========== File store ==========

// FileStore persists credentials as a JSON file, hydrated once at
// construction.
type FileStore struct {
	path string

	mu    sync.Mutex
	creds storedCredentials
	now   func() time.Time
}

// NewFileStore loads any saved credentials from path. A missing file is not
// an error; expired credentials are discarded on load.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds storedCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		// A corrupt file is treated as logged out.
		return s, nil
	}
	if !creds.expired(s.now()) {
		s.creds = creds
	}
	return s, nil
}

func (s *FileStore) SetCredentials(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = storedCredentials{
		AuthToken:   token,
		UserDetails: user,
		ExpiresAt:   s.now().Add(CredentialTTL),
	}
	return s.flush()
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.expired(s.now()) {
		return ""
	}
	return s.creds.AuthToken
}

func (s *FileStore) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.expired(s.now()) {
		return nil
	}
	return s.creds.UserDetails
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = storedCredentials{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(&s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// ========== Memory store ==========

// MemoryStore keeps credentials in memory only. Used in tests and anywhere
// persistence is unwanted.
type MemoryStore struct {
	mu    sync.Mutex
	creds storedCredentials
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) SetCredentials(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = storedCredentials{
		AuthToken:   token,
		UserDetails: user,
		ExpiresAt:   s.now().Add(CredentialTTL),
	}
	return nil
}

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.expired(s.now()) {
		return ""
	}
	return s.creds.AuthToken
}

func (s *MemoryStore) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.expired(s.now()) {
		return nil
	}
	return s.creds.UserDetails
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = storedCredentials{}
	return nil
}
