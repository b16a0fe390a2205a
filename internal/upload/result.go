package upload

import (
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
)

// Outcome classifies what happened to one file of a batch.
type Outcome string

const (
	OutcomeUploaded            Outcome = "uploaded"
	OutcomeFileTooLarge        Outcome = "file_too_large"
	OutcomeUnsupportedType     Outcome = "unsupported_type"
	OutcomeStorageWriteFailed  Outcome = "storage_write_failed"
	OutcomeMetadataWriteFailed Outcome = "metadata_write_failed"
)

var (
	ErrEmptyBatch          = apperrors.Validation("EMPTY_BATCH", "no files provided")
	ErrTooManyFiles        = apperrors.Validation("TOO_MANY_FILES", "too many files in one upload")
	ErrFileTooLarge        = apperrors.Validation("FILE_TOO_LARGE", "file exceeds the maximum upload size")
	ErrUnsupportedType     = apperrors.Validation("UNSUPPORTED_TYPE", "file type is not supported")
	ErrStorageWriteFailed  = apperrors.Remote("STORAGE_WRITE_FAILED", "failed to store file")
	ErrMetadataWriteFailed = apperrors.Remote("METADATA_WRITE_FAILED", "failed to record file")
)

// Result is the per-file outcome of a batch. Exactly one of EntryID (on success) or
// Err (on failure) is meaningful.
type Result struct {
	Name       string
	Outcome    Outcome
	EntryID    uuid.UUID
	StorageKey string
	Err        error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeUploaded
}

func uploaded(name string, id uuid.UUID, key string) Result {
	return Result{Name: name, Outcome: OutcomeUploaded, EntryID: id, StorageKey: key}
}

func failed(name string, outcome Outcome, err error) Result {
	return Result{Name: name, Outcome: outcome, Err: err}
}
