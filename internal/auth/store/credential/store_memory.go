package credential

import (
	"context"
	"sync"

	"parlor/internal/auth/models"
)

// InMemoryStore keeps the credential for the lifetime of its browser session.
type InMemoryStore struct {
	mu    sync.RWMutex
	value models.Credential
}

// NewInMemory constructs an empty in-memory credential store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(_ context.Context) (models.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.value.IsZero() {
		return "", false, nil
	}
	return s.value, true, nil
}

func (s *InMemoryStore) Set(_ context.Context, cred models.Credential) error {
	if cred.IsZero() {
		return ErrEmptyCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = cred
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}
