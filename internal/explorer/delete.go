package explorer

import (
	"context"
	"errors"
	"fmt"

	"drive-service/internal/domain/entry"
	apperrors "drive-service/pkg/errors"
	"drive-service/pkg/logger"

	"github.com/google/uuid"
)

const errListDescendantsFmt = "failed to list children of folder %s: %w"

// Delete removes an entry. For a file its blob is removed first; for a folder every
// descendant blob is removed in one call and then the rows are deleted children first.
// Metadata is deleted even when blob removal fails. The delete policy decides whether
// that failure is only logged or reported as ErrPartialDelete.
func (c *Controller) Delete(ctx context.Context, target *entry.Entry) error {
	if !c.sess.Valid() {
		return errNoSession
	}
	if target == nil {
		return apperrors.Wrap(ErrDeleteFailed, apperrors.NotFound("entry not found"))
	}

	rows := []uuid.UUID{target.ID}
	var keys []string
	if key := target.StorageKey(); key != "" {
		keys = append(keys, key)
	}

	if target.IsFolder() {
		descendants, descendantKeys, err := c.collectDescendants(ctx, target.ID)
		if err != nil {
			return apperrors.Wrap(ErrDeleteFailed, err)
		}
		rows = append(descendants, rows...)
		keys = append(keys, descendantKeys...)
	}

	var storageErr error
	if len(keys) > 0 {
		storageErr = c.objects.Remove(ctx, keys)
		if c.opts.Cache != nil {
			for _, key := range keys {
				c.opts.Cache.Delete(key)
			}
		}
	}

	for _, id := range rows {
		err := c.entries.Delete(ctx, c.sess.OwnerID, id)
		if err == nil {
			continue
		}
		// A descendant may already be gone through the parent's cascade.
		if id != target.ID && errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		return apperrors.Wrap(ErrDeleteFailed, err)
	}

	c.afterDelete(ctx, target)

	if storageErr != nil {
		if c.opts.DeletePolicy == DeleteStrict {
			return apperrors.Wrap(ErrPartialDelete, storageErr)
		}
		c.opts.Logger.Printf(logRemoveFailedFmt, len(keys), target.ID, logger.SanitizeLogMessage(storageErr.Error()))
	}

	return nil
}

// collectDescendants walks the subtree below folderID breadth first and returns the
// descendant ids deepest level first, along with the storage keys of every file in it.
func (c *Controller) collectDescendants(ctx context.Context, folderID uuid.UUID) ([]uuid.UUID, []string, error) {
	var (
		levels [][]uuid.UUID
		keys   []string
	)
	seen := map[uuid.UUID]struct{}{folderID: {}}
	queue := []uuid.UUID{folderID}

	for len(queue) > 0 {
		var level, next []uuid.UUID
		for _, currentID := range queue {
			id := currentID
			children, err := c.entries.List(ctx, c.sess.OwnerID, &id)
			if err != nil {
				return nil, nil, fmt.Errorf(errListDescendantsFmt, id, err)
			}

			for _, child := range children {
				if _, exists := seen[child.ID]; exists {
					continue
				}
				seen[child.ID] = struct{}{}
				level = append(level, child.ID)
				if child.IsFolder() {
					next = append(next, child.ID)
				} else if key := child.StorageKey(); key != "" {
					keys = append(keys, key)
				}
			}
		}
		if len(level) > 0 {
			levels = append(levels, level)
		}
		queue = next
	}

	var ids []uuid.UUID
	for i := len(levels) - 1; i >= 0; i-- {
		ids = append(ids, levels[i]...)
	}
	return ids, keys, nil
}

// afterDelete keeps the view consistent: deleting the open folder or one of its
// ancestors moves the view to the deleted entry's parent.
func (c *Controller) afterDelete(ctx context.Context, target *entry.Entry) {
	if target.IsFolder() && c.onPath(target.ID) {
		if err := c.goTo(ctx, copyID(target.ParentID)); err != nil {
			c.opts.Logger.Printf(logRefreshFailedFmt, "delete", logger.SanitizeLogMessage(err.Error()))
		}
		return
	}
	c.refreshQuietly(ctx, "delete")
}
