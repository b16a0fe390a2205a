package explorer

import (
	"errors"

	apperrors "drive-service/pkg/errors"
)

var (
	ErrInvalidName = apperrors.Validation("INVALID_NAME", "invalid name")
	ErrNotAFolder  = apperrors.Validation("NOT_A_FOLDER", "entry is not a folder")
	ErrNotAFile    = apperrors.Validation("NOT_A_FILE", "entry is not a file")

	ErrListFailed                 = apperrors.Remote("LIST_FAILED", "failed to list folder")
	ErrLookupFailed               = apperrors.Remote("LOOKUP_FAILED", "failed to load entry")
	ErrBreadcrumbResolutionFailed = apperrors.Remote("BREADCRUMB_RESOLUTION_FAILED", "failed to resolve folder path")
	ErrCreateFailed               = apperrors.Remote("CREATE_FAILED", "failed to create folder")
	ErrRenameFailed               = apperrors.Remote("RENAME_FAILED", "failed to rename entry")
	ErrDeleteFailed               = apperrors.Remote("DELETE_FAILED", "failed to delete entry")
	ErrPartialDelete              = apperrors.Remote("PARTIAL_DELETE", "entry deleted but its stored content could not be removed")
	ErrPreviewFailed              = apperrors.Remote("PREVIEW_FAILED", "failed to create preview link")
)

var (
	errFolderCycle      = errors.New("folder chain loops back on itself")
	errFolderTooDeep    = errors.New("folder chain exceeds maximum depth")
	errDanglingParent   = errors.New("ancestor folder does not exist")
	errNoSession        = apperrors.Unauthorized("no active session")
	errAncestorIsNotDir = errors.New("ancestor is not a folder")
)
