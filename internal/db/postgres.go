package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// ErrEmptyDSN is returned by Open when no connection string is configured.
var ErrEmptyDSN = errors.New("db: DATABASE_URL is not set")

// DefaultBackoff retries the startup ping five times, starting at 200ms and doubling.
func DefaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
}

// Open opens a Postgres connection pool through the pgx stdlib driver and pings it,
// retrying with DefaultBackoff while the database comes up. Caller must call Close when done.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return OpenWithBackoff(ctx, dsn, DefaultBackoff())
}

// OpenWithBackoff is Open with a caller-supplied retry policy for the initial ping.
func OpenWithBackoff(ctx context.Context, dsn string, b retry.Backoff) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").Wrap(err)
	}
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, oops.Code("DB_PING_FAILED").Wrap(err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}
