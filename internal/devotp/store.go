// Package devotp keeps issued OTPs in memory so they can be read back over the dev-only
// endpoint instead of being mailed. Never enabled in production.
package devotp

import (
	"context"
	"sync"
	"time"

	"authify/backend/internal/otp"
)

// Store holds plain codes by (email, purpose) for dev-only retrieval.
type Store interface {
	// Put records code for email and purpose until expiresAt, replacing any earlier code.
	Put(ctx context.Context, email string, purpose otp.Purpose, code string, expiresAt time.Time)
	// Get returns the code if present and not expired.
	Get(ctx context.Context, email string, purpose otp.Purpose) (code string, ok bool)
}

type key struct {
	email   string
	purpose otp.Purpose
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[key]entry
	nowF func() time.Time
}

// NewMemoryStore returns an empty dev OTP store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[key]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put records code for email and purpose until expiresAt.
func (s *MemoryStore) Put(_ context.Context, email string, purpose otp.Purpose, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key{email, purpose}] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for email and purpose if present and not expired. Expired entries are dropped.
func (s *MemoryStore) Get(_ context.Context, email string, purpose otp.Purpose) (string, bool) {
	k := key{email, purpose}
	s.mu.RLock()
	e, ok := s.m[k]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, k)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
