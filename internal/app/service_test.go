package app

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"drive-service/internal/auth"
	"drive-service/internal/config"
	"drive-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func memoryConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Storage:  config.StorageConfig{Driver: config.DriverMemory, Bucket: "user-files"},
		JWT:      config.JWTConfig{Secret: testSecret},
		App: config.AppConfig{
			PreviewURLTTL:  time.Hour,
			MaxFileSize:    1024,
			MaxBatchFiles:  5,
			MaxFolderDepth: 64,
			DeletePolicy:   config.DeletePolicyBestEffort,
			AuditEnabled:   true,
		},
	}
}

func TestInitializeServiceWithMemoryDrivers(t *testing.T) {
	svc, err := InitializeService(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	rec := httptest.NewRecorder()
	svc.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadOutcomesReachMetrics(t *testing.T) {
	svc, err := InitializeService(memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	metrics.GetMetrics().Reset()

	token, err := auth.NewJWTService(testSecret).Generate(uuid.New(), "owner@example.com", time.Hour)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="hello.txt"`)
	h.Set("Content-Type", "text/plain")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	svc.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), metrics.GetMetrics().Snapshot().UploadOutcomes["uploaded"])
}
