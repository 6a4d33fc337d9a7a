package auth

import (
	"access-service/internal/domain/organization"
	"access-service/internal/domain/role"
	"access-service/internal/infra/cache"
	"access-service/internal/rbac"
	"access-service/internal/rbac/presets"
	apperrors "access-service/pkg/errors"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	err   error
	calls int
}

func (f *fakeMembers) GetMember(_ context.Context, orgID, userID uuid.UUID) (*organization.Member, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &organization.Member{OrganizationID: orgID, UserID: userID}, nil
}

type fakeRoleTypes struct {
	types []role.Type
	err   error
	calls int
}

func (f *fakeRoleTypes) TypesForUser(context.Context, uuid.UUID, uuid.UUID) ([]role.Type, error) {
	f.calls++
	return f.types, f.err
}

// requireSingleError checks that exactly one JSON error body was written.
func requireSingleError(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	body := rec.Body.String()
	require.Equal(t, 1, strings.Count(body, "\n"), "response body: %q", body)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, map[string]string{jsonKeyError: want}, got)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireJWT(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	userID := uuid.New()
	valid, err := svc.Generate(userID, "ada@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var gotUser uuid.UUID
			h := NewMiddleware(svc).RequireJWT()(func(c echo.Context) error {
				gotUser, _ = GetUserID(c)
				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, h(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, "ada@example.com", GetEmail(c))
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := GetUserID(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	c.Set(ContextKeyUserID, "not-a-uuid")
	_, err = GetUserID(c)
	assert.ErrorIs(t, err, apperrors.ErrInternalServer)
}

func newOrgContext(userID uuid.UUID, orgParam string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames(paramOrgID)
	c.SetParamValues(orgParam)
	c.Set(ContextKeyUserID, userID)
	return c, rec
}

func TestRequireOrgPermission(t *testing.T) {
	checker := rbac.MustNew(presets.Platform())
	orgID := uuid.New()

	tests := []struct {
		name       string
		orgParam   string
		members    *fakeMembers
		roles      *fakeRoleTypes
		resource   rbac.Resource
		action     rbac.Action
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid org id",
			orgParam:   "nope",
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{},
			resource:   presets.ResourceProject,
			action:     presets.ActionRead,
			wantStatus: http.StatusBadRequest,
			wantError:  msgInvalidOrganizationID,
		},
		{
			name:       "not a member",
			orgParam:   orgID.String(),
			members:    &fakeMembers{err: apperrors.NotFound("member not found")},
			roles:      &fakeRoleTypes{},
			resource:   presets.ResourceProject,
			action:     presets.ActionRead,
			wantStatus: http.StatusNotFound,
			wantError:  msgOrganizationNotFound,
		},
		{
			name:       "member lookup fails",
			orgParam:   orgID.String(),
			members:    &fakeMembers{err: errors.New("connection reset")},
			roles:      &fakeRoleTypes{},
			resource:   presets.ResourceProject,
			action:     presets.ActionRead,
			wantStatus: http.StatusInternalServerError,
			wantError:  msgPermissionCheckFailed,
		},
		{
			name:       "role lookup fails",
			orgParam:   orgID.String(),
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{err: errors.New("connection reset")},
			resource:   presets.ResourceProject,
			action:     presets.ActionRead,
			wantStatus: http.StatusInternalServerError,
			wantError:  msgPermissionCheckFailed,
		},
		{
			name:       "member without roles is denied",
			orgParam:   orgID.String(),
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{},
			resource:   presets.ResourceProject,
			action:     presets.ActionRead,
			wantStatus: http.StatusForbidden,
			wantError:  msgInsufficientPermissions,
		},
		{
			name:       "viewer cannot manage reports",
			orgParam:   orgID.String(),
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{types: []role.Type{role.TypeViewer}},
			resource:   presets.ResourceReport,
			action:     presets.ActionManage,
			wantStatus: http.StatusForbidden,
			wantError:  msgInsufficientPermissions,
		},
		{
			name:       "any held role may grant",
			orgParam:   orgID.String(),
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{types: []role.Type{role.TypeViewer, role.TypeQAManager}},
			resource:   presets.ResourceRoleAssignment,
			action:     presets.ActionWrite,
			wantStatus: http.StatusOK,
		},
		{
			name:       "alias resolves to admin",
			orgParam:   orgID.String(),
			members:    &fakeMembers{},
			roles:      &fakeRoleTypes{types: []role.Type{role.TypeAdministrator}},
			resource:   presets.ResourceReport,
			action:     presets.ActionManage,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permCache := cache.NewPermissionCache(time.Minute)
			m := NewRBACMiddleware(checker, tt.members, tt.roles, permCache)
			c, rec := newOrgContext(uuid.New(), tt.orgParam)

			require.NoError(t, m.RequireOrgPermission(tt.resource, tt.action)(okHandler)(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			switch tt.wantStatus {
			case http.StatusOK, http.StatusForbidden:
				assert.Equal(t, 1, permCache.Len())
			default:
				assert.Zero(t, permCache.Len())
			}
			if tt.wantError != "" {
				requireSingleError(t, rec, tt.wantError)
			}

			if tt.wantStatus == http.StatusOK {
				got, err := GetOrgID(c)
				require.NoError(t, err)
				assert.Equal(t, orgID, got)
			}
		})
	}
}

func TestRequireOrgPermission_CachesDecision(t *testing.T) {
	checker := rbac.MustNew(presets.Platform())
	members := &fakeMembers{}
	roles := &fakeRoleTypes{types: []role.Type{role.TypeOwner}}
	m := NewRBACMiddleware(checker, members, roles, cache.NewPermissionCache(time.Minute))

	orgID, userID := uuid.New(), uuid.New()
	mw := m.RequireOrgPermission(presets.ResourceProject, presets.ActionDelete)

	for range 3 {
		c, rec := newOrgContext(userID, orgID.String())
		require.NoError(t, mw(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, members.calls)

	// A demotion is visible once the entry is invalidated.
	roles.types = []role.Type{role.TypeViewer}
	m.Invalidate(orgID, userID)

	c, rec := newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 2, members.calls)
}

func TestRequireOrgPermission_InvalidateOrganization(t *testing.T) {
	checker := rbac.MustNew(presets.Platform())
	members := &fakeMembers{}
	m := NewRBACMiddleware(checker, members, &fakeRoleTypes{types: []role.Type{role.TypeOwner}}, cache.NewPermissionCache(time.Minute))

	orgID, userID := uuid.New(), uuid.New()
	mw := m.RequireOrgPermission(presets.ResourceProject, presets.ActionRead)

	c, _ := newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))

	m.InvalidateOrganization(orgID)

	c, _ = newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, 2, members.calls)
}

func TestRequireOrgPermission_LookupFailureIsNotCached(t *testing.T) {
	checker := rbac.MustNew(presets.Platform())
	members := &fakeMembers{err: errors.New("connection reset")}
	roles := &fakeRoleTypes{types: []role.Type{role.TypeOwner}}
	permCache := cache.NewPermissionCache(time.Minute)
	m := NewRBACMiddleware(checker, members, roles, permCache)

	orgID, userID := uuid.New(), uuid.New()
	mw := m.RequireOrgPermission(presets.ResourceProject, presets.ActionDelete)

	c, rec := newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	requireSingleError(t, rec, msgPermissionCheckFailed)
	assert.Zero(t, permCache.Len())
	assert.Zero(t, roles.calls)

	members.err = nil

	c, rec = newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, members.calls)
	assert.Equal(t, 1, permCache.Len())
}

func TestRequireOrgPermission_NewMemberIsRechecked(t *testing.T) {
	checker := rbac.MustNew(presets.Platform())
	members := &fakeMembers{err: apperrors.NotFound("member not found")}
	permCache := cache.NewPermissionCache(time.Minute)
	m := NewRBACMiddleware(checker, members, &fakeRoleTypes{types: []role.Type{role.TypeViewer}}, permCache)

	orgID, userID := uuid.New(), uuid.New()
	mw := m.RequireOrgPermission(presets.ResourceProject, presets.ActionRead)

	c, rec := newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	requireSingleError(t, rec, msgOrganizationNotFound)
	assert.Zero(t, permCache.Len())

	members.err = nil

	c, rec = newOrgContext(userID, orgID.String())
	require.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, members.calls)
}
