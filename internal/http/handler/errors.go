package handler

import (
	"errors"
	"net/http"

	apperrors "drive-service/pkg/errors"
)

// MapToPublicError maps an error to the status code and message sent to the client.
// Store failures become 502 with the operation's own message; anything unclassified
// is reported as a generic 500.
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, apperrors.PublicMessage(err, "authentication required")
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, apperrors.PublicMessage(err, "resource conflict")
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrPathTraversal):
		return http.StatusBadRequest, apperrors.PublicMessage(err, "invalid input")
	case errors.Is(err, apperrors.ErrRemote):
		return http.StatusBadGateway, apperrors.PublicMessage(err, "storage backend unavailable")
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}
