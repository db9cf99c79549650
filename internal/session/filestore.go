package session

import (
	"os"

	"github.com/gridstash/gridstash/internal/config"
)

// FileStore persists the bearer token to a file with 0600 permissions.
// Used by the CLI; the default path is ~/.config/gridstash/token.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store. An empty path uses
// the default token location.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = config.DefaultTokenPath()
	}
	return &FileStore{path: path}
}

// Path returns the token file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the persisted token. A missing file means logged out, not
// an error.
func (f *FileStore) Load() (string, error) {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return "", nil
	}
	return config.ReadTokenFile(f.path)
}

// Save writes the token.
func (f *FileStore) Save(token string) error {
	return config.WriteTokenFile(f.path, token)
}

// Clear removes the persisted token.
func (f *FileStore) Clear() error {
	return config.RemoveTokenFile(f.path)
}

// MemStore is an in-memory TokenStore for tests and ephemeral sessions.
type MemStore struct {
	token string
}

// NewMemStore creates an empty in-memory token store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the held token.
func (m *MemStore) Load() (string, error) { return m.token, nil }

// Save stores the token.
func (m *MemStore) Save(token string) error {
	m.token = token
	return nil
}

// Clear drops the token.
func (m *MemStore) Clear() error {
	m.token = ""
	return nil
}
