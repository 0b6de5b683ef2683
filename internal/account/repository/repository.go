package repository

import (
	"context"

	"authify/backend/internal/account/domain"
)

// Repository defines persistence for accounts. Lookups return (nil, nil) when no account
// matches; errors are reserved for storage failures.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Upsert inserts the account or replaces the stored record with the same ID in one atomic
	// write. Email is immutable once stored and Verified never reverts. Returns an error wrapping
	// domain.ErrEmailExists when another account already holds the email.
	Upsert(ctx context.Context, a *domain.Account) error
}
