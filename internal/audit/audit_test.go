package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"drive-service/internal/auth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/folders", nil)
	req.Header.Set("User-Agent", "drive-test")
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
	return c
}

func TestNewEventUsesOwnerAsActor(t *testing.T) {
	c := newContext(t)
	owner := uuid.New()
	c.Set(auth.ContextKeyOwnerID, owner)
	folderID := uuid.New()

	event := NewEvent(c, ResourceTypeFolder, &folderID, ActionCreate, StatusSuccess, map[string]any{"name": "Docs"})

	assert.Equal(t, "create_folder", event.EventType)
	assert.Equal(t, ActorTypeUser, event.ActorType)
	require.NotNil(t, event.ActorID)
	assert.Equal(t, owner, *event.ActorID)
	assert.Equal(t, &folderID, event.ResourceID)
	assert.Equal(t, "10.0.0.7", event.IPAddress)
	assert.Equal(t, "drive-test", event.UserAgent)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "Docs", event.Metadata["name"])
}

func TestNewEventWithoutSessionIsSystem(t *testing.T) {
	c := newContext(t)

	event := NewEvent(c, ResourceTypeFile, nil, ActionUpload, StatusFailure, nil)

	assert.Equal(t, ActorTypeSystem, event.ActorType)
	assert.Nil(t, event.ActorID)
	assert.Equal(t, "upload_file", event.EventType)
}

func TestNopDiscards(t *testing.T) {
	c := newContext(t)
	var n Nop

	assert.NoError(t, n.LogFromContext(c, ResourceTypeFile, nil, ActionDelete, StatusSuccess, nil))
	assert.NoError(t, n.LogError(c, ResourceTypeFile, nil, ActionDelete, errors.New("boom")))
}

func TestNewEventRedactsSensitiveMetadata(t *testing.T) {
	c := newContext(t)

	event := NewEvent(c, ResourceTypeFile, nil, ActionUpload, StatusFailure, map[string]any{
		"name":  "a.txt",
		"token": "abc",
	})

	assert.Equal(t, "a.txt", event.Metadata["name"])
	assert.Equal(t, "[REDACTED]", event.Metadata["token"])
}

type recordingExecer struct {
	sql  string
	args []any
	err  error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	r.args = args
	return pgconn.CommandTag{}, r.err
}

func TestLogWritesEventRow(t *testing.T) {
	db := &recordingExecer{}
	l := NewLogger(db)
	fileID := uuid.New()

	event := &Event{
		EventType:    "delete_file",
		ActorType:    ActorTypeUser,
		ResourceType: ResourceTypeFile,
		ResourceID:   &fileID,
		Action:       ActionDelete,
		Status:       StatusSuccess,
		Metadata:     map[string]any{"name": "a.txt"},
	}
	require.NoError(t, l.Log(context.Background(), event))

	assert.Contains(t, db.sql, "INSERT INTO audit_events")
	require.Len(t, db.args, 14)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.Equal(t, event.ID, db.args[0])
	assert.JSONEq(t, `{"name":"a.txt"}`, string(db.args[11].([]byte)))
}

func TestLogReturnsExecError(t *testing.T) {
	boom := errors.New("connection reset")
	l := NewLogger(&recordingExecer{err: boom})

	assert.ErrorIs(t, l.Log(context.Background(), &Event{}), boom)
}
