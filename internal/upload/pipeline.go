// Package upload validates files and writes each one to the object store and then the
// metadata store. Files in a batch succeed or fail independently.
package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"drive-service/internal/domain/entry"
	"drive-service/internal/session"
	"drive-service/internal/storagekey"
	apperrors "drive-service/pkg/errors"
	"drive-service/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultMaxFileSize = int64(10 * 1024 * 1024)
	DefaultMaxFiles    = 5

	mimePDF = "application/pdf"

	logOrphanedBlobFmt = "upload: blob %s stored but metadata insert failed, leaving it orphaned: %v"
	errTooManyFilesFmt = "maximum %d files allowed per upload, got %d"
	errFileTooLargeFmt = "file is %d bytes, the limit is %d bytes"
)

var allowedMimePrefixes = []string{"image/", "text/", "video/"}

// File is one upload candidate. Size and MimeType are taken as reported by the client.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

type MetadataWriter interface {
	Create(ctx context.Context, input entry.CreateInput) (*entry.Entry, error)
}

type ObjectWriter interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Observer is told about every per-file result after it is final.
type Observer func(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, r Result)

type Pipeline struct {
	metadata    MetadataWriter
	objects     ObjectWriter
	stamps      *storagekey.Sequence
	maxFileSize int64
	maxFiles    int
	logger      *log.Logger
	observers   []Observer
}

type Option func(*Pipeline)

func WithMaxFileSize(n int64) Option {
	return func(p *Pipeline) { p.maxFileSize = n }
}

func WithMaxFiles(n int) Option {
	return func(p *Pipeline) { p.maxFiles = n }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.stamps = storagekey.NewSequence(now) }
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observers = append(p.observers, o) }
}

func New(metadata MetadataWriter, objects ObjectWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		metadata:    metadata,
		objects:     objects,
		stamps:      storagekey.NewSequence(time.Now),
		maxFileSize: DefaultMaxFileSize,
		maxFiles:    DefaultMaxFiles,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxFiles is the batch size limit this pipeline enforces.
func (p *Pipeline) MaxFiles() int {
	return p.maxFiles
}

// IsAllowedType reports whether files of mimeType may be uploaded. The type is matched
// as sent, case-sensitively: image/, text/ and video/ by prefix, PDF exactly.
func IsAllowedType(mimeType string) bool {
	if mimeType == mimePDF {
		return true
	}
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}

// CheckBatch rejects empty and oversized batches. It never touches a store.
func (p *Pipeline) CheckBatch(n int) error {
	if n == 0 {
		return ErrEmptyBatch
	}
	if n > p.maxFiles {
		return apperrors.Detail(ErrTooManyFiles, fmt.Sprintf(errTooManyFilesFmt, p.maxFiles, n))
	}
	return nil
}

// UploadBatch processes files in order, each one fully finishing before the next starts,
// and returns one Result per file in input order. The returned error is non-nil only
// when the batch as a whole is rejected, in which case no store was called.
func (p *Pipeline) UploadBatch(ctx context.Context, sess session.Session, parentID *uuid.UUID, files []File) ([]Result, error) {
	if !sess.Valid() {
		return nil, apperrors.Unauthorized("no active session")
	}
	if err := p.CheckBatch(len(files)); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		r := p.uploadOne(ctx, sess.OwnerID, parentID, f)
		for _, observe := range p.observers {
			observe(ctx, sess.OwnerID, parentID, r)
		}
		results = append(results, r)
	}
	return results, nil
}

func (p *Pipeline) uploadOne(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID, f File) Result {
	if f.Size > p.maxFileSize {
		return failed(f.Name, OutcomeFileTooLarge, apperrors.Detail(ErrFileTooLarge, fmt.Sprintf(errFileTooLargeFmt, f.Size, p.maxFileSize)))
	}
	if !IsAllowedType(f.MimeType) {
		return failed(f.Name, OutcomeUnsupportedType, ErrUnsupportedType)
	}

	key := storagekey.Build(ownerID, parentID, f.Name, p.stamps.Next())

	if _, err := p.objects.Put(ctx, key, f.Content, f.MimeType); err != nil {
		return failed(f.Name, OutcomeStorageWriteFailed, apperrors.Wrap(ErrStorageWriteFailed, err))
	}

	created, err := p.metadata.Create(ctx, entry.CreateInput{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     f.Name,
		File: &entry.FileInfo{
			MimeType:   f.MimeType,
			SizeBytes:  f.Size,
			StorageKey: key,
		},
	})
	if err != nil {
		p.logger.Printf(logOrphanedBlobFmt, key, logger.SanitizeLogMessage(err.Error()))
		return failed(f.Name, OutcomeMetadataWriteFailed, apperrors.Wrap(ErrMetadataWriteFailed, err))
	}

	return uploaded(f.Name, created.ID, key)
}
