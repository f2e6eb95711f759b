package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned by Open for unsupported drivers.
var ErrUnknownDriver = errors.New("store: unknown driver")

// OpenOptions selects the database backing a BunStore.
type OpenOptions struct {
	Driver string
	DSN    string
	// Debug installs a verbose query hook.
	Debug bool
}

// Open connects to the configured SQL database and wraps it in bun.
func Open(opts OpenOptions) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	dsn := strings.TrimSpace(opts.DSN)

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:docsync.db?cache=shared&_fk=1"
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("open postgres: dsn is required")
		}
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}

	if opts.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// CreateSchema creates the documents table and its hash index when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("store: create schema requires a database")
	}
	if _, err := db.NewCreateTable().Model((*documentRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create %s: %w", TableName, err)
	}
	if _, err := db.NewCreateIndex().
		Model((*documentRecord)(nil)).
		Index("docs_documents_content_hash_idx").
		Column("content_hash").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create %s hash index: %w", TableName, err)
	}
	return nil
}
