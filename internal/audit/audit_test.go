package audit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_Defaults(t *testing.T) {
	query, args := buildQuery(QueryFilter{})

	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $1")
	assert.NotContains(t, query, "OFFSET")
	assert.Equal(t, []any{defaultLimit}, args)
}

func TestBuildQuery_PlaceholdersFollowFilters(t *testing.T) {
	orgID := uuid.New()
	resource := ResourceTypeRoleAssignment
	action := ActionDelete
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildQuery(QueryFilter{
		OrganizationID: &orgID,
		ResourceType:   &resource,
		Action:         &action,
		StartTime:      &since,
		Limit:          10,
		Offset:         20,
	})

	assert.Contains(t, query, "organization_id = $1")
	assert.Contains(t, query, "resource_type = $2")
	assert.Contains(t, query, "action = $3")
	assert.Contains(t, query, "created_at >= $4")
	assert.Contains(t, query, "LIMIT $5")
	assert.Contains(t, query, "OFFSET $6")
	assert.Equal(t, []any{orgID, "role_assignment", "delete", since, 10, 20}, args)
	assert.True(t, strings.Index(query, "ORDER BY") < strings.Index(query, "LIMIT"))
}

func TestNewEvent(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("User-Agent", "accessctl/test")
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-1")
	c := e.NewContext(req, rec)

	t.Run("system actor without user", func(t *testing.T) {
		event := NewEvent(c, ResourceTypeProject, nil, ActionCreate, StatusSuccess)

		assert.Equal(t, "create_project", event.EventType)
		assert.Equal(t, ActorTypeSystem, event.ActorType)
		assert.Nil(t, event.ActorID)
		assert.Nil(t, event.OrganizationID)
		assert.Equal(t, "accessctl/test", event.UserAgent)
		assert.Equal(t, "req-1", event.RequestID)
	})

	t.Run("user actor and organization", func(t *testing.T) {
		userID, orgID := uuid.New(), uuid.New()
		c.Set(contextKeyUserID, userID)
		c.Set(contextKeyOrgID, orgID)

		event := NewEvent(c, ResourceTypeRoleAssignment, nil, ActionDelete, StatusSuccess)

		assert.Equal(t, ActorTypeUser, event.ActorType)
		require.NotNil(t, event.ActorID)
		assert.Equal(t, userID, *event.ActorID)
		require.NotNil(t, event.OrganizationID)
		assert.Equal(t, orgID, *event.OrganizationID)
	})
}
