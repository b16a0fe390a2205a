package repository

import (
	"context"
	"drive-service/internal/domain/entry"

	"github.com/google/uuid"
)

// EntryRepository is the metadata store for file-system entries. Every method is scoped
// to an owner; implementations never return rows belonging to another owner.
type EntryRepository interface {
	// List returns direct children of parentID (nil means the owner's root), folders first,
	// then by name ascending.
	List(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]*entry.Entry, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entry.Entry, error)
	Create(ctx context.Context, input entry.CreateInput) (*entry.Entry, error)
	UpdateName(ctx context.Context, ownerID, id uuid.UUID, name string) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
