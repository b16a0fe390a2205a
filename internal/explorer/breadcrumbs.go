package explorer

import (
	"context"
	"errors"
	"fmt"

	"drive-service/internal/domain/entry"
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
)

// RebuildBreadcrumbs returns the path from the root marker to folderID, one metadata
// read per ancestor. On any failure it returns the root marker alone together with an
// ErrBreadcrumbResolutionFailed error, so callers can always render something.
// Cyclic or over-deep parent chains are reported, not repaired.
func (c *Controller) RebuildBreadcrumbs(ctx context.Context, folderID *uuid.UUID) ([]entry.Breadcrumb, error) {
	root := []entry.Breadcrumb{entry.RootBreadcrumb()}
	if folderID == nil {
		return root, nil
	}
	if !c.sess.Valid() {
		return root, apperrors.Wrap(ErrBreadcrumbResolutionFailed, errNoSession)
	}

	var path []entry.Breadcrumb
	seen := make(map[uuid.UUID]struct{})
	currentID := copyID(folderID)

	for currentID != nil {
		if _, loop := seen[*currentID]; loop {
			return root, apperrors.Wrap(ErrBreadcrumbResolutionFailed, fmt.Errorf("%w at %s", errFolderCycle, currentID))
		}
		if len(seen) >= c.opts.MaxDepth {
			return root, apperrors.Wrap(ErrBreadcrumbResolutionFailed, fmt.Errorf("%w of %d", errFolderTooDeep, c.opts.MaxDepth))
		}
		seen[*currentID] = struct{}{}

		folder, err := c.entries.GetByID(ctx, c.sess.OwnerID, *currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				err = fmt.Errorf("%w: %s: %w", errDanglingParent, currentID, err)
			}
			return root, apperrors.Wrap(ErrBreadcrumbResolutionFailed, err)
		}
		if !folder.IsFolder() {
			return root, apperrors.Wrap(ErrBreadcrumbResolutionFailed, fmt.Errorf("%w: %s", errAncestorIsNotDir, folder.ID))
		}

		id := folder.ID
		path = append(path, entry.Breadcrumb{ID: &id, Name: folder.Name})
		currentID = copyID(folder.ParentID)
	}

	crumbs := make([]entry.Breadcrumb, 0, len(path)+1)
	crumbs = append(crumbs, entry.RootBreadcrumb())
	for i := len(path) - 1; i >= 0; i-- {
		crumbs = append(crumbs, path[i])
	}
	return crumbs, nil
}
