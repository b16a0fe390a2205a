package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errEntryNotFound      = "entry not found"
	errParentNotFound     = "parent folder not found"
	errEntryAlreadyExists = "entry already exists"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateEntryFmt = "failed to create entry: %w"
	errFailedGetEntryFmt    = "failed to get entry: %w"
	errFailedListEntriesFmt = "failed to list entries: %w"
	errFailedScanEntryFmt   = "failed to scan entry: %w"
	errFailedRenameEntryFmt = "failed to rename entry: %w"
	errFailedDeleteEntryFmt = "failed to delete entry: %w"
)

var (
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateEntry          = func(err error) error { return fmt.Errorf(errFailedCreateEntryFmt, err) }
	errFailedDeleteEntry          = func(err error) error { return fmt.Errorf(errFailedDeleteEntryFmt, err) }
	errFailedGetEntry             = func(err error) error { return fmt.Errorf(errFailedGetEntryFmt, err) }
	errFailedListEntries          = func(err error) error { return fmt.Errorf(errFailedListEntriesFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedRenameEntry          = func(err error) error { return fmt.Errorf(errFailedRenameEntryFmt, err) }
	errFailedScanEntry            = func(err error) error { return fmt.Errorf(errFailedScanEntryFmt, err) }
)
