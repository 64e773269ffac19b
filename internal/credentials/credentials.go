// Package credentials holds the authentication token and profile issued by
// the backend. Writes are last-write-wins; no expiry is evaluated locally.
package credentials

import (
	"context"
	"sync"

	"github.com/nfrund/wastewise/internal/domain"
)

// Store is the contract every credential backing implements.
type Store interface {
	// Get returns the stored credential, or false when none is held.
	Get(ctx context.Context) (domain.Credential, bool)
	// Set persists the credential, replacing any previous one.
	Set(ctx context.Context, cred domain.Credential) error
	// Clear removes the credential. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Token returns the stored bearer token, or "" when the store is nil or empty.
func Token(ctx context.Context, s Store) string {
	if s == nil {
		return ""
	}
	cred, ok := s.Get(ctx)
	if !ok {
		return ""
	}
	return cred.Token
}

// MemoryStore keeps the credential in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context) (domain.Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil || !m.cred.Valid() {
		return domain.Credential{}, false
	}
	return *m.cred, true
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, cred domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = &cred
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	return nil
}
