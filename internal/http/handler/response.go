package handler

import (
	"net/http"

	"drive-service/internal/domain/entry"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func handleHTTPError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return respondError(c, he.Code, msg)
	}

	return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// uploadResultResponse is one element of the /upload response. Successful files carry
// success and id, failed ones carry error.
type uploadResultResponse struct {
	Name    string     `json:"name"`
	Success bool       `json:"success,omitempty"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type previewURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

type breadcrumbsResponse struct {
	Breadcrumbs []entry.Breadcrumb `json:"breadcrumbs"`
	Error       string             `json:"error,omitempty"`
}
