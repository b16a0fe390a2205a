package handler

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"drive-service/internal/audit"
	"drive-service/internal/auth"
	"drive-service/internal/types"
	"drive-service/internal/upload"
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploader    BatchUploader
	auditLogger types.AuditLogger
}

func NewUploadHandler(uploader BatchUploader, auditLogger types.AuditLogger) *UploadHandler {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &UploadHandler{
		uploader:    uploader,
		auditLogger: auditLogger,
	}
}

// Upload accepts a multipart batch of "file" parts and an optional parent_id field.
// The response lists one result per file in request order.
func (h *UploadHandler) Upload(c echo.Context) error {
	sess, err := auth.GetSession(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidMultipartForm)
	}

	headers := form.File[formFieldFile]
	if err := h.uploader.CheckBatch(len(headers)); err != nil {
		return err
	}

	parentID, err := optionalID(formFieldParent, firstValue(form.Value[formFieldParent]))
	if err != nil {
		return handleHTTPError(c, err)
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			closeAll(files)
			return respondError(c, http.StatusBadRequest, msgOpenUploadFailed)
		}
		files = append(files, upload.File{
			Name:     fh.Filename,
			MimeType: partContentType(fh),
			Size:     fh.Size,
			Content:  src,
		})
	}
	defer closeAll(files)

	results, err := h.uploader.UploadBatch(c.Request().Context(), sess, parentID, files)
	if err != nil {
		return err
	}

	out := make([]uploadResultResponse, 0, len(results))
	for _, r := range results {
		h.audit(c, r, parentID)
		out = append(out, newUploadResultResponse(r))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *UploadHandler) audit(c echo.Context, r upload.Result, parentID *uuid.UUID) {
	metadata := map[string]any{
		metaKeyName:    r.Name,
		metaKeyOutcome: string(r.Outcome),
	}
	if parentID != nil {
		metadata[metaKeyParentID] = parentID.String()
	}

	if !r.OK() {
		metadata[jsonKeyError] = apperrors.PublicMessage(r.Err, string(r.Outcome))
		_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeFile, nil, audit.ActionUpload, audit.StatusFailure, metadata)
		return
	}
	id := r.EntryID
	metadata[metaKeyStorageKey] = r.StorageKey
	_ = h.auditLogger.LogFromContext(c, audit.ResourceTypeFile, &id, audit.ActionUpload, audit.StatusSuccess, metadata)
}

func newUploadResultResponse(r upload.Result) uploadResultResponse {
	if r.OK() {
		id := r.EntryID
		return uploadResultResponse{Name: r.Name, Success: true, ID: &id}
	}
	return uploadResultResponse{Name: r.Name, Error: apperrors.PublicMessage(r.Err, string(r.Outcome))}
}

// partContentType is the part's declared type, or a guess from the extension when
// the client sent none.
func partContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" {
		return ct
	}
	return mime.TypeByExtension(filepath.Ext(fh.Filename))
}

func closeAll(files []upload.File) {
	for _, f := range files {
		if closer, ok := f.Content.(io.Closer); ok {
			_ = closer.Close()
		}
	}
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
