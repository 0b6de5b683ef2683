package repository

import (
	"context"
	"database/sql"

	"github.com/samber/oops"

	"authify/backend/internal/audit/domain"
)

// PostgresRepository stores audit logs in the audit_logs table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository backed by db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a. ID must be set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	accountID := sql.NullString{String: a.AccountID, Valid: a.AccountID != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, account_id, action, resource, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, accountID, a.Action, a.Resource, a.IP, meta, a.CreatedAt,
	)
	if err != nil {
		return oops.Code("AUDIT_CREATE_FAILED").With("action", a.Action).Wrap(err)
	}
	return nil
}

// ListByAccount returns the entries for accountID, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, action, resource, ip, metadata, created_at
		 FROM audit_logs WHERE account_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		accountID, limit, offset,
	)
	if err != nil {
		return nil, oops.Code("AUDIT_LIST_FAILED").With("account_id", accountID).Wrap(err)
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a        domain.AuditLog
			accID    sql.NullString
			metadata sql.NullString
		)
		if err := rows.Scan(&a.ID, &accID, &a.Action, &a.Resource, &a.IP, &metadata, &a.CreatedAt); err != nil {
			return nil, oops.Code("AUDIT_LIST_FAILED").With("account_id", accountID).Wrap(err)
		}
		a.AccountID = accID.String
		a.Metadata = metadata.String
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("AUDIT_LIST_FAILED").With("account_id", accountID).Wrap(err)
	}
	return out, nil
}
