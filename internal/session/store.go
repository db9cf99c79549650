// Package session owns the authentication token: its in-memory copy,
// its durable persistence across reloads, and the derived
// authenticated/unauthenticated status. All token access in the
// application goes through exactly one Store instance.
package session

import (
	"sync"

	"github.com/gridstash/gridstash/internal/events"
)

// TokenStore is the durable persistence contract for the bearer token.
// The CLI uses a file-backed store; the browser build uses
// localStorage. Load returns an empty string when no token is
// persisted.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Store holds the session token. Exactly one instance exists
// process-wide, owned by the view controller.
type Store struct {
	mu       sync.RWMutex
	token    string
	persist  TokenStore
	eventBus *events.EventBus
}

// NewStore creates a session store over the given persistence backend.
// persist may be nil for ephemeral sessions (tests).
func NewStore(persist TokenStore, eventBus *events.EventBus) *Store {
	return &Store{
		persist:  persist,
		eventBus: eventBus,
	}
}

// Restore reads a previously persisted token at process start.
// A present token marks the session authenticated without any network
// call: validity is discovered lazily on the first authorized request.
// Returns whether a token was restored.
func (s *Store) Restore() bool {
	if s.persist == nil {
		return false
	}
	token, err := s.persist.Load()
	if err != nil || token == "" {
		return false
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.publish(true)
	return true
}

// Login stores the token in memory and in durable storage and marks
// the session authenticated. A persistence failure does not invalidate
// the in-memory session; it only costs reload survival.
func (s *Store) Login(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.publish(true)

	if s.persist != nil {
		return s.persist.Save(token)
	}
	return nil
}

// Logout clears the token from memory and durable storage. Owning
// components (catalog, viewer) are discarded by the controller on the
// same transition; in-flight calls see an empty token on their next
// fresh read.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	s.publish(false)

	if s.persist != nil {
		return s.persist.Clear()
	}
	return nil
}

// Token returns the current bearer token. Gateway calls read this
// synchronously at call time, never at construction, so a logout
// mid-flight starves later calls immediately.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

func (s *Store) publish(authenticated bool) {
	if s.eventBus != nil {
		s.eventBus.Publish(events.NewSessionChangedEvent(authenticated))
	}
}
