// Package revocationstore provides in-memory and Redis-backed
// implementations of token.RevocationStore.
package revocationstore

import (
	"context"
	"sync"
	"time"

	"github.com/reforged/reforged/token"
)

var _ token.RevocationStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory RevocationStore. Suitable for single-process
// deployments and tests. Expired entries are dropped lazily on lookup.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> revocation expiry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, exists := s.revoked[jti]
	if !exists {
		return false, nil
	}
	// An expired entry refers to a token that is itself past expiry, so
	// it can be dropped rather than kept around forever.
	if time.Now().After(expiry) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Len reports how many revocations are currently held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}
