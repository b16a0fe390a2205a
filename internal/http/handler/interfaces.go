package handler

import (
	"context"
	"time"

	"drive-service/internal/domain/entry"
	"drive-service/internal/explorer"
	"drive-service/internal/session"
	"drive-service/internal/upload"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers.
// Each interface contains only the methods needed by the specific handler.

// UploadHandler interfaces
type BatchUploader interface {
	CheckBatch(n int) error
	UploadBatch(ctx context.Context, sess session.Session, parentID *uuid.UUID, files []upload.File) ([]upload.Result, error)
}

// EntryHandler interfaces
type Explorer interface {
	ListChildren(ctx context.Context, folderID *uuid.UUID) ([]*entry.Entry, error)
	Open(ctx context.Context, folderID *uuid.UUID) error
	View() explorer.View
	RebuildBreadcrumbs(ctx context.Context, folderID *uuid.UUID) ([]entry.Breadcrumb, error)
	Lookup(ctx context.Context, id uuid.UUID) (*entry.Entry, error)
	CreateFolderIn(ctx context.Context, parentID *uuid.UUID, name string) (*entry.Entry, error)
	Rename(ctx context.Context, id uuid.UUID, newName string) error
	Delete(ctx context.Context, target *entry.Entry) error
	SignedURL(ctx context.Context, file *entry.Entry) (string, time.Time, error)
}

// ExplorerFactory opens an explorer for one request's session.
type ExplorerFactory func(sess session.Session) Explorer
