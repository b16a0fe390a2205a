package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"drive-service/internal/auth"
	"drive-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeFile   ResourceType = "file"
	ResourceTypeFolder ResourceType = "folder"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpload  Action = "upload"
	ActionRename  Action = "rename"
	ActionDelete  Action = "delete"
	ActionPreview Action = "preview"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

const (
	writeTimeout     = 2 * time.Second
	logWriteFailed   = "audit log failed: %v\n"
	metadataKeyError = "error"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      *uuid.UUID
	ResourceType ResourceType
	ResourceID   *uuid.UUID
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

// Execer is the slice of the metadata database the audit trail writes through.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Logger writes audit events to the audit_events table.
type Logger struct {
	db Execer
}

func NewLogger(db Execer) *Logger {
	return &Logger{db: db}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var metadataJSON []byte
	var err error
	if event.Metadata != nil {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = l.db.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorType,
		event.ActorID,
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)

	return err
}

// LogFromContext builds an event from the request and writes it in the background.
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) error {
	l.logAsync(c, NewEvent(c, resourceType, resourceID, action, status, metadata))
	return nil
}

// LogError records a failed action with the error text.
func (l *Logger) LogError(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, err error) error {
	msg := logger.SanitizeLogMessage(err.Error())
	event := NewEvent(c, resourceType, resourceID, action, StatusFailure, map[string]any{
		metadataKeyError: msg,
	})
	event.ErrorMessage = msg
	l.logAsync(c, event)
	return nil
}

func (l *Logger) logAsync(c echo.Context, event *Event) {
	out := c.Logger().Output()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	go func() {
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			fmt.Fprintf(out, logWriteFailed, err)
		}
	}()
}

// NewEvent fills the request-derived fields of an event. The actor is the
// authenticated owner, or the system when the request carries no session.
func NewEvent(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) *Event {
	event := &Event{
		EventType:    string(action) + "_" + string(resourceType),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		ActorType:    ActorTypeSystem,
	}

	if metadata != nil {
		event.Metadata = logger.SanitizeMap(metadata)
	}

	if ownerID := auth.GetOwnerID(c); ownerID != uuid.Nil {
		event.ActorType = ActorTypeUser
		event.ActorID = &ownerID
	}

	return event
}

// Nop discards every event. It stands in when auditing is disabled or the
// metadata store is not Postgres.
type Nop struct{}

func (Nop) LogFromContext(echo.Context, ResourceType, *uuid.UUID, Action, Status, map[string]any) error {
	return nil
}

func (Nop) LogError(echo.Context, ResourceType, *uuid.UUID, Action, error) error {
	return nil
}
