// Package sqlstore persists users, properties and availability blocks in
// PostgreSQL or SQLite through one sqlx-based implementation. Queries are
// written with '?' placeholders and rebound for the active driver.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

func init() {
	// sqlx only knows the cgo driver name "sqlite3".
	sqlx.BindDriver(string(DriverSQLite), sqlx.QUESTION)
}

type Config struct {
	Driver Driver
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string
	// SQLitePath is the database file used by the embedded backend.
	SQLitePath   string
	MaxOpenConns int
}

// Store owns the connection pool. It is safe for concurrent use.
type Store struct {
	db     *sqlx.DB
	driver Driver
}

// Open connects to the configured backend, verifies the connection and applies
// pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrateUp(cfg.Driver, dsn); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(string(cfg.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		// One writer at a time; busy_timeout covers the migration connection.
		db.SetMaxOpenConns(1)
	default:
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxOpenConns)
		}
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", cfg.Driver, err)
	}

	return &Store{db: db, driver: cfg.Driver}, nil
}

func dataSourceName(cfg Config) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return "", errors.New("sqlstore: DATABASE_URL is required for postgres")
		}
		return cfg.DatabaseURL, nil
	case DriverSQLite, "":
		path := cfg.SQLitePath
		if path == "" {
			path = "database.sqlite"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("sqlstore: create %s: %w", dir, err)
			}
		}
		return "file:" + path +
			"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}
}

func (s *Store) Driver() Driver { return s.driver }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

// withTx runs fn inside a transaction and commits when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func (s *Store) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.db.QueryRowxContext(ctx, s.rebind(query), args...).Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// translateError maps driver constraint errors onto ErrUniqueViolation and
// ErrForeignKeyViolation using the driver's error codes.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrUniqueViolation, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return err
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", ErrUniqueViolation, sqErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", ErrForeignKeyViolation, sqErr.Error())
		}
	}
	return err
}
