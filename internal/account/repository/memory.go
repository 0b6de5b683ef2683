package repository

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"authify/backend/internal/account/domain"
)

// MemoryRepository keeps accounts in process memory. Used for development and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

// NewMemoryRepository returns an empty in-memory account repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

// GetByID returns a copy of the account for id, or nil.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAccount(r.byID[id]), nil
}

// GetByEmail returns a copy of the account for email, or nil.
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneAccount(r.byID[id]), nil
}

// ExistsByEmail reports whether email is taken.
func (r *MemoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

// Upsert stores a copy of a.
func (r *MemoryRepository) Upsert(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byEmail[a.Email]; ok && id != a.ID {
		return oops.Code("ACCOUNT_EMAIL_EXISTS").With("email", a.Email).Wrap(domain.ErrEmailExists)
	}
	stored := cloneAccount(a)
	if cur, ok := r.byID[a.ID]; ok {
		stored.Email = cur.Email
		stored.CreatedAt = cur.CreatedAt
		stored.Verified = cur.Verified || a.Verified
	}
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.VerificationOTP != nil {
		s := *a.VerificationOTP
		c.VerificationOTP = &s
	}
	if a.ResetOTP != nil {
		s := *a.ResetOTP
		c.ResetOTP = &s
	}
	return &c
}

var _ Repository = (*MemoryRepository)(nil)
