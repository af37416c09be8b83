package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	appconfig "github.com/GTDGit/inventory_api/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Migrate creates the employees and products tables if they are absent.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	name := db.DriverName()

	var driver migratedb.Driver
	switch name {
	case appconfig.DriverSQLite:
		d, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
		if err != nil {
			return fmt.Errorf("could not create migration driver: %w", err)
		}
		driver = d
	case appconfig.DriverPostgres:
		// A dedicated connection, handed back to the pool afterwards, keeps the
		// migrator from holding one of the pool's few connections for good.
		conn, err := db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("could not acquire migration connection: %w", err)
		}
		defer conn.Close()
		d, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			return fmt.Errorf("could not create migration driver: %w", err)
		}
		driver = d
	default:
		return fmt.Errorf("no migrations for driver %q", name)
	}

	src, err := iofs.New(migrations, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
