// Package migrate applies the embedded SQL migrations with golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"

	"authify/backend/internal/db"
)

// Directions accepted by Run.
const (
	Up   = "up"
	Down = "down"
)

// ErrEmptyDSN is returned when no database URL is given.
var ErrEmptyDSN = errors.New("DATABASE_URL is not set")

// Run migrates the database at dsn all the way up or down. Being already at the target
// version is not an error.
func Run(dsn, direction string) error {
	if dsn == "" {
		return ErrEmptyDSN
	}
	if direction != Up && direction != Down {
		return fmt.Errorf("direction must be %q or %q, got %q", Up, Down, direction)
	}

	src, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return oops.Code("MIGRATE_SOURCE_FAILED").Wrap(err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return oops.Code("MIGRATE_INIT_FAILED").Wrap(err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.Code("MIGRATE_FAILED").With("direction", direction).Wrap(err)
	}
	return nil
}
