package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	GetMetrics().Reset()

	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/bad", func(c echo.Context) error { return c.NoContent(http.StatusBadRequest) })

	for _, path := range []string{"/ok", "/ok", "/bad"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	snap := GetMetrics().Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.Equal(t, int64(2), snap.EndpointCounts["GET /ok"])
	assert.Equal(t, int64(1), snap.StatusCodes[http.StatusBadRequest])
}

func TestRecordUploadAppearsInRoute(t *testing.T) {
	GetMetrics().Reset()
	RecordUpload("uploaded")
	RecordUpload("uploaded")
	RecordUpload("file_too_large")

	e := echo.New()
	RegisterMetricsRoute(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/requests", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(2), snap.UploadOutcomes["uploaded"])
	assert.Equal(t, int64(1), snap.UploadOutcomes["file_too_large"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, GetMetrics().Snapshot().UploadOutcomes)
}
