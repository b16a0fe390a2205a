package entry

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// RootName is the display name of the breadcrumb that stands for an owner's tree root.
const RootName = "My Drive"

// FileInfo is the payload only file entries carry. A folder is an Entry whose File is nil,
// so a folder can never hold a storage key, mime type or size.
type FileInfo struct {
	MimeType   string
	SizeBytes  int64
	StorageKey string
}

type Entry struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	ParentID  *uuid.UUID
	Name      string
	File      *FileInfo
	CreatedAt time.Time
}

func (e *Entry) Kind() Kind {
	if e.File != nil {
		return KindFile
	}
	return KindFolder
}

func (e *Entry) IsFolder() bool {
	return e.File == nil
}

func (e *Entry) StorageKey() string {
	if e.File == nil {
		return ""
	}
	return e.File.StorageKey
}

type entryJSON struct {
	ID         uuid.UUID  `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	ParentID   *uuid.UUID `json:"parent_id"`
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	MimeType   *string    `json:"mime_type,omitempty"`
	SizeBytes  *int64     `json:"size_bytes,omitempty"`
	StorageKey *string    `json:"storage_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		ParentID:  e.ParentID,
		Name:      e.Name,
		Kind:      e.Kind(),
		CreatedAt: e.CreatedAt,
	}
	if e.File != nil {
		out.MimeType = &e.File.MimeType
		out.SizeBytes = &e.File.SizeBytes
		out.StorageKey = &e.File.StorageKey
	}
	return json.Marshal(out)
}

type Breadcrumb struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name"`
}

func RootBreadcrumb() Breadcrumb {
	return Breadcrumb{ID: nil, Name: RootName}
}

type CreateInput struct {
	OwnerID  uuid.UUID
	ParentID *uuid.UUID
	Name     string
	File     *FileInfo
}

// SameParent reports whether two nullable parent references point at the same folder.
func SameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FromColumns rebuilds the file payload from the nullable columns of a stored row.
// Folder rows yield nil regardless of what the columns hold.
func FromColumns(kind Kind, mimeType *string, sizeBytes *int64, storageKey *string) *FileInfo {
	if kind != KindFile {
		return nil
	}
	info := &FileInfo{}
	if mimeType != nil {
		info.MimeType = *mimeType
	}
	if sizeBytes != nil {
		info.SizeBytes = *sizeBytes
	}
	if storageKey != nil {
		info.StorageKey = *storageKey
	}
	return info
}

// Columns is the inverse of FromColumns.
func (in CreateInput) Columns() (kind Kind, mimeType *string, sizeBytes *int64, storageKey *string) {
	if in.File == nil {
		return KindFolder, nil, nil, nil
	}
	return KindFile, &in.File.MimeType, &in.File.SizeBytes, &in.File.StorageKey
}
