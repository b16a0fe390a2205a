package http

import (
	"errors"
	"fmt"
	"net/http"

	"drive-service/internal/http/handler"

	"github.com/labstack/echo/v4"
)

const (
	jsonKeyError     = "error"
	jsonKeyRequestID = "request_id"
	unknownRequestID = "unknown"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// Echo HTTP errors keep their code; everything else goes through handler.MapToPublicError.
// 5xx details are logged, never sent.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    int
		message string
	)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		code, message = handler.MapToPublicError(err)
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = unknownRequestID
	}

	switch {
	case code >= http.StatusInternalServerError && code != http.StatusBadGateway:
		c.Logger().Errorf("internal_server_error request_id=%s status=%d error=%v", requestID, code, err)
		message = http.StatusText(http.StatusInternalServerError)
	case code >= http.StatusInternalServerError:
		c.Logger().Errorf("upstream_error request_id=%s status=%d error=%v", requestID, code, err)
	default:
		c.Logger().Warnf("client_error request_id=%s status=%d error=%v", requestID, code, err)
	}

	if err := c.JSON(code, map[string]interface{}{
		jsonKeyError:     message,
		jsonKeyRequestID: requestID,
	}); err != nil {
		c.Logger().Error(err)
	}
}
