package handler

import (
	"errors"
	"net/http"
	"time"

	"drive-service/internal/audit"
	"drive-service/internal/auth"
	"drive-service/internal/domain/entry"
	"drive-service/internal/explorer"
	"drive-service/internal/session"
	"drive-service/internal/types"
	apperrors "drive-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// EntryHandler serves the drive explorer. Each request gets a fresh explorer bound to
// the caller's session, so no navigation state is shared between requests.
type EntryHandler struct {
	explorers   ExplorerFactory
	auditLogger types.AuditLogger
}

func NewEntryHandler(explorers ExplorerFactory, auditLogger types.AuditLogger) *EntryHandler {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &EntryHandler{
		explorers:   explorers,
		auditLogger: auditLogger,
	}
}

type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

type RenameEntryRequest struct {
	Name string `json:"name"`
}

func (h *EntryHandler) explorer(c echo.Context) (Explorer, error) {
	sess, err := auth.GetSession(c)
	if err != nil {
		return nil, err
	}
	return h.explorers(sess), nil
}

// ListEntries returns the children of parent_id, or of the root when it is absent.
func (h *EntryHandler) ListEntries(c echo.Context) error {
	parentID, err := optionalID(queryParentID, c.QueryParam(queryParentID))
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	items, err := ex.ListChildren(c.Request().Context(), parentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetDrive opens folder_id and returns the whole explorer view. A failed breadcrumb
// resolution still returns the listing, with the root-only path and an error message.
func (h *EntryHandler) GetDrive(c echo.Context) error {
	folderID, err := optionalID(queryFolderID, c.QueryParam(queryFolderID))
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	openErr := ex.Open(c.Request().Context(), folderID)
	if openErr != nil && !breadcrumbsOnly(openErr) {
		return openErr
	}

	view := ex.View()
	if openErr != nil {
		view.Error = apperrors.PublicMessage(openErr, explorer.ErrBreadcrumbResolutionFailed.Message)
	}
	return c.JSON(http.StatusOK, view)
}

// GetBreadcrumbs resolves the path from the root to folder :id.
func (h *EntryHandler) GetBreadcrumbs(c echo.Context) error {
	folderID, err := pathID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	crumbs, err := ex.RebuildBreadcrumbs(c.Request().Context(), &folderID)
	resp := breadcrumbsResponse{Breadcrumbs: crumbs}
	if err != nil {
		c.Logger().Warnf("breadcrumbs for folder %s: %v", folderID, err)
		resp.Error = apperrors.PublicMessage(err, explorer.ErrBreadcrumbResolutionFailed.Message)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EntryHandler) CreateFolder(c echo.Context) error {
	var req CreateFolderRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	var raw string
	if req.ParentID != nil {
		raw = *req.ParentID
	}
	parentID, err := optionalID(queryParentID, raw)
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	folder, err := ex.CreateFolderIn(c.Request().Context(), parentID, req.Name)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			_ = h.auditLogger.LogError(c, audit.ResourceTypeFolder, parentID, audit.ActionCreate, err)
		}
		return err
	}

	metadata := map[string]any{metaKeyName: folder.Name}
	if parentID != nil {
		metadata[metaKeyParentID] = parentID.String()
	}
	_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeFolder, &folder.ID, audit.ActionCreate, audit.StatusSuccess, metadata)

	return c.JSON(http.StatusCreated, folder)
}

// RenameEntry changes the display name only. A file keeps its storage key.
func (h *EntryHandler) RenameEntry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	var req RenameEntryRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	target, err := ex.Lookup(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if err := ex.Rename(c.Request().Context(), id, req.Name); err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			_ = h.auditLogger.LogError(c, resourceType(target), &id, audit.ActionRename, err)
		}
		return err
	}

	_ = h.auditLogger.LogFromContext(c, resourceType(target), &id, audit.ActionRename, audit.StatusSuccess, map[string]any{
		metaKeyOldName: target.Name,
		metaKeyName:    req.Name,
	})

	return respondMessage(c, http.StatusOK, msgEntryRenamed)
}

// DeleteEntry removes a file or a folder with everything below it.
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	target, err := ex.Lookup(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if err := ex.Delete(c.Request().Context(), target); err != nil {
		_ = h.auditLogger.LogError(c, resourceType(target), &id, audit.ActionDelete, err)
		return err
	}

	metadata := map[string]any{metaKeyName: target.Name}
	if key := target.StorageKey(); key != "" {
		metadata[metaKeyStorageKey] = key
	}
	_ = h.auditLogger.LogFromContext(c, resourceType(target), &id, audit.ActionDelete, audit.StatusSuccess, metadata)

	return respondMessage(c, http.StatusOK, msgEntryDeleted)
}

// GetPreviewURL returns a time-limited link to a file's content.
func (h *EntryHandler) GetPreviewURL(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	ex, err := h.explorer(c)
	if err != nil {
		return err
	}

	target, err := ex.Lookup(c.Request().Context(), id)
	if err != nil {
		return err
	}

	url, expires, err := ex.SignedURL(c.Request().Context(), target)
	if err != nil {
		_ = h.auditLogger.LogError(c, resourceType(target), &id, audit.ActionPreview, err)
		return err
	}

	_ = h.auditLogger.LogFromContext(c, resourceType(target), &id, audit.ActionPreview, audit.StatusSuccess, map[string]any{
		metaKeyName: target.Name,
	})

	return c.JSON(http.StatusOK, previewURLResponse{
		URL:       url,
		ExpiresIn: secondsUntil(expires, time.Now()),
	})
}

// breadcrumbsOnly reports whether an Open failure left the listing intact.
func breadcrumbsOnly(err error) bool {
	return errors.Is(err, explorer.ErrBreadcrumbResolutionFailed) &&
		!errors.Is(err, explorer.ErrListFailed)
}

// secondsUntil is the remaining lifetime of a link, rounded to whole seconds.
func secondsUntil(expires, now time.Time) int64 {
	left := expires.Sub(now).Round(time.Second)
	if left < 0 {
		return 0
	}
	return int64(left / time.Second)
}

func resourceType(e *entry.Entry) audit.ResourceType {
	if e != nil && e.IsFolder() {
		return audit.ResourceTypeFolder
	}
	return audit.ResourceTypeFile
}

// NewExplorerFactory binds shared stores and options into per-session explorers.
func NewExplorerFactory(entries explorer.EntryStore, objects explorer.ObjectStore, opts explorer.Options) ExplorerFactory {
	return func(sess session.Session) Explorer {
		return explorer.New(sess, entries, objects, opts)
	}
}
