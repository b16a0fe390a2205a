package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq"
)

const (
	driverName   = "postgres"
	maxOpenConns = 5
	maxIdleConns = 2

	errOpenFmt   = "failed to open database: %w"
	errPingFmt   = "failed to ping database: %w"
	errSchemaFmt = "failed to apply schema: %w"
	errTableFmt  = "failed to check table %s: %w"
)

//go:embed schema.sql
var schemaSQL string

// Tables lists the tables the schema creates.
var Tables = []string{"entries", "audit_events"}

type DB struct {
	*sql.DB
}

// Connect opens a database/sql handle on lib/pq. It is used by the schema tool,
// the server itself runs on a pgx pool.
func Connect(connString string) (*DB, error) {
	db, err := sql.Open(driverName, connString)
	if err != nil {
		return nil, fmt.Errorf(errOpenFmt, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(errPingFmt, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	return &DB{db}, nil
}

// Migrate applies the schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf(errSchemaFmt, err)
	}
	return nil
}

// TableExists reports whether table exists in the public schema.
func (db *DB) TableExists(ctx context.Context, table string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = $1
	)`

	var exists bool
	if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
		return false, fmt.Errorf(errTableFmt, table, err)
	}
	return exists, nil
}
