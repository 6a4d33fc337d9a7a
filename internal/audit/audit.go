package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
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
	ResourceTypeOrganization   ResourceType = "organization"
	ResourceTypeProject        ResourceType = "project"
	ResourceTypeRole           ResourceType = "role"
	ResourceTypeRoleAssignment ResourceType = "role_assignment"
	ResourceTypeGroup          ResourceType = "group"
	ResourceTypeMember         ResourceType = "member"
	ResourceTypeAccessReview   ResourceType = "access_review"
	ResourceTypeUser           ResourceType = "user"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
	ActionAdd    Action = "add"
	ActionLogin  Action = "login"
	ActionSignup Action = "signup"
	ActionExport Action = "export"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

const (
	contextKeyUserID = "user_id"
	contextKeyOrgID  = "organization_id"

	asyncTimeout   = 2 * time.Second
	defaultLimit   = 100
	msgAuditFailed = "audit log failed: %v"
)

// Event represents an audit event
type Event struct {
	ID             uuid.UUID      `json:"id"`
	EventType      string         `json:"event_type"`
	ActorType      ActorType      `json:"actor_type"`
	ActorID        *uuid.UUID     `json:"actor_id,omitempty"`
	OrganizationID *uuid.UUID     `json:"organization_id,omitempty"`
	ResourceType   ResourceType   `json:"resource_type"`
	ResourceID     *uuid.UUID     `json:"resource_id,omitempty"`
	Action         Action         `json:"action"`
	Status         Status         `json:"status"`
	IPAddress      string         `json:"ip_address"`
	UserAgent      string         `json:"user_agent"`
	RequestID      string         `json:"request_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Logger handles audit logging
type Logger struct {
	pool *pgxpool.Pool
}

func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// Log records an audit event synchronously.
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	event.Metadata = redactMetadata(event.Metadata)
	event.ErrorMessage = redactMessage(event.ErrorMessage)

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_type, actor_id, organization_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := l.pool.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorType,
		event.ActorID,
		event.OrganizationID,
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

// LogFromContext records an event built from the request asynchronously.
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status, metadata map[string]any) error {
	event := NewEvent(c, resourceType, resourceID, action, status)
	event.Metadata = metadata
	l.logAsync(c, event)
	return nil
}

// LogError records a failed action with error details asynchronously.
func (l *Logger) LogError(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, err error) error {
	event := NewEvent(c, resourceType, resourceID, action, StatusFailure)
	event.Metadata = map[string]any{"error": err.Error()}
	event.ErrorMessage = err.Error()
	l.logAsync(c, event)
	return nil
}

// NewEvent fills the request and actor fields of an event from c.
func NewEvent(c echo.Context, resourceType ResourceType, resourceID *uuid.UUID, action Action, status Status) *Event {
	event := &Event{
		EventType:    string(action) + "_" + string(resourceType),
		ActorType:    ActorTypeSystem,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if uid, ok := c.Get(contextKeyUserID).(uuid.UUID); ok {
		event.ActorType = ActorTypeUser
		event.ActorID = &uid
	}
	if oid, ok := c.Get(contextKeyOrgID).(uuid.UUID); ok {
		event.OrganizationID = &oid
	}

	return event
}

func (l *Logger) logAsync(c echo.Context, event *Event) {
	logger := c.Logger()
	ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
	go func() {
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			logger.Errorf(msgAuditFailed, err)
		}
	}()
}

type QueryFilter struct {
	OrganizationID *uuid.UUID
	ActorID        *uuid.UUID
	ResourceType   *ResourceType
	ResourceID     *uuid.UUID
	Action         *Action
	Status         *Status
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          int
	Offset         int
}

// Query retrieves audit events, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	query, args := buildQuery(filter)

	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.ActorType,
			&event.ActorID,
			&event.OrganizationID,
			&event.ResourceType,
			&event.ResourceID,
			&event.Action,
			&event.Status,
			&event.IPAddress,
			&event.UserAgent,
			&event.RequestID,
			&metadataJSON,
			&event.ErrorMessage,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, err
			}
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

func buildQuery(filter QueryFilter) (string, []any) {
	query := `
		SELECT id, event_type, actor_type, actor_id, organization_id, resource_type, resource_id,
		       action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		FROM audit_events
		WHERE 1=1`
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.OrganizationID != nil {
		add(" AND organization_id = $%d", *filter.OrganizationID)
	}
	if filter.ActorID != nil {
		add(" AND actor_id = $%d", *filter.ActorID)
	}
	if filter.ResourceType != nil {
		add(" AND resource_type = $%d", string(*filter.ResourceType))
	}
	if filter.ResourceID != nil {
		add(" AND resource_id = $%d", *filter.ResourceID)
	}
	if filter.Action != nil {
		add(" AND action = $%d", string(*filter.Action))
	}
	if filter.Status != nil {
		add(" AND status = $%d", string(*filter.Status))
	}
	if filter.StartTime != nil {
		add(" AND created_at >= $%d", *filter.StartTime)
	}
	if filter.EndTime != nil {
		add(" AND created_at <= $%d", *filter.EndTime)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	add(" LIMIT $%d", limit)

	if filter.Offset > 0 {
		add(" OFFSET $%d", filter.Offset)
	}

	return query, args
}
