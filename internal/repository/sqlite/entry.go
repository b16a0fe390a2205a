package sqlite

import (
	"context"
	"database/sql"
	"drive-service/internal/domain/entry"
	apperrors "drive-service/pkg/errors"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const entryColumns = "id, owner_id, parent_id, name, kind, mime_type, size_bytes, storage_key, created_at"

type EntryRepository struct {
	db  *DB
	now func() time.Time
}

func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*entry.Entry, error) {
	var (
		e         entry.Entry
		id        string
		ownerID   string
		parentID  sql.NullString
		kind      string
		mimeType  sql.NullString
		sizeBytes sql.NullInt64
		key       sql.NullString
	)

	if err := row.Scan(&id, &ownerID, &parentID, &e.Name, &kind, &mimeType, &sizeBytes, &key, &e.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if e.ID, err = parseID(id); err != nil {
		return nil, err
	}
	if e.OwnerID, err = parseID(ownerID); err != nil {
		return nil, err
	}
	if parentID.Valid {
		pid, err := parseID(parentID.String)
		if err != nil {
			return nil, err
		}
		e.ParentID = &pid
	}

	e.File = entry.FromColumns(entry.Kind(kind), nullString(mimeType), nullInt64(sizeBytes), nullString(key))
	return &e, nil
}

func (r *EntryRepository) List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]*entry.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE owner_id = ?"
	args := []interface{}{ownerID.String()}

	if parentID != nil {
		query += " AND parent_id = ?"
		args = append(args, parentID.String())
	} else {
		query += " AND parent_id IS NULL"
	}

	query += " ORDER BY kind DESC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errFailedListEntriesFmt, err)
	}
	defer rows.Close()

	entries := []*entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedScanEntryFmt, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errFailedListEntriesFmt, err)
	}

	return entries, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entry.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE id = ? AND owner_id = ?"

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id.String(), ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(errEntryNotFound)
		}
		return nil, fmt.Errorf(errFailedGetEntryFmt, err)
	}

	return e, nil
}

// Create inserts the entry only when its parent is a folder owned by the same owner.
// A missing, foreign or file parent inserts nothing and is reported as NotFound.
func (r *EntryRepository) Create(ctx context.Context, input entry.CreateInput) (*entry.Entry, error) {
	query := `
		INSERT INTO entries (id, owner_id, parent_id, name, kind, mime_type, size_bytes, storage_key, created_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE ? IS NULL OR EXISTS (
			SELECT 1 FROM entries WHERE id = ? AND owner_id = ? AND kind = 'folder'
		)
	`

	kind, mimeType, sizeBytes, key := input.Columns()
	id := uuid.New()
	owner := input.OwnerID.String()

	var parentID interface{}
	if input.ParentID != nil {
		parentID = input.ParentID.String()
	}

	result, err := r.db.ExecContext(ctx, query,
		id.String(), owner, parentID, input.Name, string(kind),
		mimeType, sizeBytes, key, r.now().UTC(),
		parentID, parentID, owner,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintForeignKey:
				return nil, apperrors.NotFound(errParentNotFound)
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return nil, apperrors.Conflict(errEntryAlreadyExists)
			}
		}
		return nil, fmt.Errorf(errFailedCreateEntryFmt, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateEntryFmt, err)
	}
	if affected == 0 {
		return nil, apperrors.NotFound(errParentNotFound)
	}

	// Read back through the table so created_at is decoded from its declared column type.
	return r.GetByID(ctx, input.OwnerID, id)
}

func (r *EntryRepository) UpdateName(ctx context.Context, ownerID, id uuid.UUID, name string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE entries SET name = ? WHERE id = ? AND owner_id = ?",
		name, id.String(), ownerID.String(),
	)
	if err != nil {
		return fmt.Errorf(errFailedRenameEntryFmt, err)
	}

	return requireAffected(result)
}

func (r *EntryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM entries WHERE id = ? AND owner_id = ?",
		id.String(), ownerID.String(),
	)
	if err != nil {
		return fmt.Errorf(errFailedDeleteEntryFmt, err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound(errEntryNotFound)
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf(errFailedParseEntryIDFmt, raw, err)
	}
	return id, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
