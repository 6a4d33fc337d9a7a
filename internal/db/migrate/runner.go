// Package migrate applies the embedded schema with golang-migrate.
package migrate

import (
	"access-service/internal/db"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"

	migrationsDir = "migrations"

	errDSNRequired         = "database URL is empty"
	errInvalidDirectionFmt = "direction must be up or down, got %q"
	errMigrateSourceFmt    = "migrate source: %w"
	errMigrateInitFmt      = "migrate: %w"
)

// ErrNoChange is returned when the schema is already at the target version.
var ErrNoChange = migrate.ErrNoChange

// Run applies every migration in direction against dsn.
func Run(dsn string, direction string) error {
	if dsn == "" {
		return errors.New(errDSNRequired)
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf(errInvalidDirectionFmt, direction)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, migrationsDir)
	if err != nil {
		return fmt.Errorf(errMigrateSourceFmt, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return fmt.Errorf(errMigrateInitFmt, err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case DirectionUp:
		err = m.Up()
	case DirectionDown:
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
