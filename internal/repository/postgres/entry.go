package postgres

import (
	"context"
	"drive-service/internal/domain/entry"
	apperrors "drive-service/pkg/errors"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const entryColumns = "id, owner_id, parent_id, name, kind, mime_type, size_bytes, storage_key, created_at"

type EntryRepository struct {
	db *DB
}

func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func scanEntry(row pgx.Row) (*entry.Entry, error) {
	var (
		e         entry.Entry
		kind      string
		mimeType  *string
		sizeBytes *int64
		key       *string
	)

	if err := row.Scan(&e.ID, &e.OwnerID, &e.ParentID, &e.Name, &kind, &mimeType, &sizeBytes, &key, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.File = entry.FromColumns(entry.Kind(kind), mimeType, sizeBytes, key)
	return &e, nil
}

func (r *EntryRepository) List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]*entry.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE owner_id = $1"
	args := []interface{}{ownerID}

	if parentID != nil {
		query += " AND parent_id = $2"
		args = append(args, *parentID)
	} else {
		query += " AND parent_id IS NULL"
	}

	query += " ORDER BY kind DESC, name ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListEntries(err)
	}
	defer rows.Close()

	entries := []*entry.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errFailedScanEntry(err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListEntries(err)
	}

	return entries, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entry.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE id = $1 AND owner_id = $2"

	e, err := scanEntry(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errEntryNotFound)
		}
		return nil, errFailedGetEntry(err)
	}

	return e, nil
}

// Create inserts the entry only when its parent is a folder owned by the same owner.
// A missing, foreign or file parent yields no row and is reported as NotFound.
func (r *EntryRepository) Create(ctx context.Context, input entry.CreateInput) (*entry.Entry, error) {
	query := `
		INSERT INTO entries (owner_id, parent_id, name, kind, mime_type, size_bytes, storage_key)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::bigint, $7::text
		WHERE $2::uuid IS NULL OR EXISTS (
			SELECT 1 FROM entries WHERE id = $2::uuid AND owner_id = $1::uuid AND kind = 'folder'
		)
		RETURNING ` + entryColumns

	kind, mimeType, sizeBytes, key := input.Columns()

	e, err := scanEntry(r.db.QueryRow(ctx, query,
		input.OwnerID, input.ParentID, input.Name, string(kind), mimeType, sizeBytes, key,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errParentNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errEntryAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errParentNotFound)
		}
		return nil, errFailedCreateEntry(err)
	}

	return e, nil
}

func (r *EntryRepository) UpdateName(ctx context.Context, ownerID, id uuid.UUID, name string) error {
	query := "UPDATE entries SET name = $3 WHERE id = $1 AND owner_id = $2"

	result, err := r.db.Exec(ctx, query, id, ownerID, name)
	if err != nil {
		return errFailedRenameEntry(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errEntryNotFound)
	}

	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := "DELETE FROM entries WHERE id = $1 AND owner_id = $2"

	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return errFailedDeleteEntry(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errEntryNotFound)
	}

	return nil
}
