package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"authify/backend/internal/account/domain"
)

const accountColumns = `id, email, name, password_hash, verified,
	verify_otp_hash, verify_otp_expires_at, reset_otp_hash, reset_otp_expires_at,
	created_at, updated_at`

// PostgresRepository stores accounts in the accounts table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the account for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account by id").
			With("id", id).
			Wrap(err)
	}
	return a, nil
}

// GetByEmail returns the account with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_FAILED").
			With("operation", "get account by email").
			With("email", email).
			Wrap(err)
	}
	return a, nil
}

// ExistsByEmail reports whether an account holds email.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").
			With("operation", "check account email").
			With("email", email).
			Wrap(err)
	}
	return exists, nil
}

// Upsert writes a in a single statement. Concurrent writers of the same account race;
// the last statement to commit wins, except that verified is OR-ed with the stored value.
func (r *PostgresRepository) Upsert(ctx context.Context, a *domain.Account) error {
	verifyHash, verifyExp := slotColumns(a.VerificationOTP)
	resetHash, resetExp := slotColumns(a.ResetOTP)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			verified = accounts.verified OR EXCLUDED.verified,
			verify_otp_hash = EXCLUDED.verify_otp_hash,
			verify_otp_expires_at = EXCLUDED.verify_otp_expires_at,
			reset_otp_hash = EXCLUDED.reset_otp_hash,
			reset_otp_expires_at = EXCLUDED.reset_otp_expires_at,
			updated_at = EXCLUDED.updated_at`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.Verified,
		verifyHash, verifyExp, resetHash, resetExp,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_EMAIL_EXISTS").
				With("email", a.Email).
				Wrap(domain.ErrEmailExists)
		}
		return oops.Code("ACCOUNT_UPSERT_FAILED").
			With("operation", "upsert account").
			With("id", a.ID).
			Wrap(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a                     domain.Account
		name                  sql.NullString
		verifyHash, resetHash sql.NullString
		verifyExp, resetExp   sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &name, &a.PasswordHash, &a.Verified,
		&verifyHash, &verifyExp, &resetHash, &resetExp,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Name = name.String
	a.VerificationOTP = slotFromColumns(verifyHash, verifyExp)
	a.ResetOTP = slotFromColumns(resetHash, resetExp)
	return &a, nil
}

func slotColumns(s *domain.Slot) (sql.NullString, sql.NullTime) {
	if s == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: s.CodeHash, Valid: true}, sql.NullTime{Time: s.ExpiresAt, Valid: true}
}

func slotFromColumns(hash sql.NullString, exp sql.NullTime) *domain.Slot {
	if !hash.Valid || !exp.Valid {
		return nil
	}
	return &domain.Slot{CodeHash: hash.String, ExpiresAt: exp.Time.UTC()}
}

var _ Repository = (*PostgresRepository)(nil)
