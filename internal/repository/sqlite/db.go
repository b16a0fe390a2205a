package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const (
	driverName  = "sqlite3"
	dsnOptions  = "?_foreign_keys=on&_busy_timeout=5000"
	memoryDSN   = "file::memory:?_foreign_keys=on"
	maxOpenConn = 1

	errFailedOpenDatabaseFmt = "failed to open sqlite database: %w"
	errFailedCreateSchemaFmt = "failed to create sqlite schema: %w"
	errFailedPingDatabaseFmt = "failed to ping sqlite database: %w"
	errFailedCreateEntryFmt  = "failed to create entry: %w"
	errFailedGetEntryFmt     = "failed to get entry: %w"
	errFailedListEntriesFmt  = "failed to list entries: %w"
	errFailedScanEntryFmt    = "failed to scan entry: %w"
	errFailedRenameEntryFmt  = "failed to rename entry: %w"
	errFailedDeleteEntryFmt  = "failed to delete entry: %w"
	errFailedParseEntryIDFmt = "failed to parse stored id %q: %w"
	errEntryNotFound         = "entry not found"
	errParentNotFound        = "parent folder not found"
	errEntryAlreadyExists    = "entry already exists"
)

// The entries table mirrors the postgres schema. Ids are generated by the repository
// because sqlite has no uuid default.
const schema = `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		parent_id TEXT NULL REFERENCES entries(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('file', 'folder')),
		mime_type TEXT NULL,
		size_bytes INTEGER NULL,
		storage_key TEXT NULL,
		created_at TIMESTAMP NOT NULL,
		CHECK ((kind = 'folder' AND storage_key IS NULL AND mime_type IS NULL AND size_bytes IS NULL)
			OR (kind = 'file' AND storage_key IS NOT NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_entries_owner_parent ON entries(owner_id, parent_id);
`

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the sqlite file at path. An empty path opens a private
// in-memory database that lives as long as the returned DB.
func Open(path string) (*DB, error) {
	dsn := memoryDSN
	if path != "" {
		dsn = "file:" + path + dsnOptions
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf(errFailedOpenDatabaseFmt, err)
	}

	// sqlite serializes writers; a single connection also keeps an in-memory database alive.
	db.SetMaxOpenConns(maxOpenConn)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedPingDatabaseFmt, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf(errFailedCreateSchemaFmt, err)
	}

	return &DB{db}, nil
}
