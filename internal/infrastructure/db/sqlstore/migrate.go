package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// migrateUp applies the embedded migrations for driver over a dedicated
// connection that is closed afterwards.
func migrateUp(driver Driver, dsn string) error {
	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return fmt.Errorf("sqlstore: open migration connection: %w", err)
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = migratepg.WithInstance(db, &migratepg.Config{})
	default:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlstore: migration driver: %w", err)
	}

	src, err := iofs.New(migrationFS, "migrations/"+string(driver))
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("sqlstore: migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(driver), target)
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlstore: migrate up: %w", err)
	}
	return nil
}
