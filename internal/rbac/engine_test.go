package rbac_test

import (
	"access-service/internal/rbac"
	"access-service/internal/rbac/presets"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecker(t *testing.T) *rbac.Checker {
	t.Helper()
	rc, err := rbac.New(presets.Platform())
	require.NoError(t, err)
	return rc
}

func subject(roles ...rbac.Role) *rbac.Subject {
	return &rbac.Subject{UserID: "u-1", Roles: roles}
}

func TestIsRoleElevated(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		role1    rbac.Role
		role2    rbac.Role
		expected bool
	}{
		{"Owner >= Admin", presets.RoleOwner, presets.RoleAdmin, true},
		{"Admin >= Admin", presets.RoleAdmin, presets.RoleAdmin, true},
		{"Administrator == Admin", presets.RoleAdministrator, presets.RoleAdmin, true},
		{"Admin < Owner", presets.RoleAdmin, presets.RoleOwner, false},
		{"QA manager >= Product owner", presets.RoleQAManager, presets.RoleProductOwner, true},
		{"QA engineer < QA lead", presets.RoleQAEngineer, presets.RoleQALead, false},
		{"Viewer >= Viewer", presets.RoleViewer, presets.RoleViewer, true},
		{"Invalid role1", rbac.Role("invalid"), presets.RoleViewer, false},
		{"Invalid role2", presets.RoleOwner, rbac.Role("invalid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.IsRoleElevated(tt.role1, tt.role2))
		})
	}
}

func TestValidateRole(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name      string
		role      string
		expected  rbac.Role
		shouldErr bool
	}{
		{"Valid owner", "owner", presets.RoleOwner, false},
		{"Valid qa_lead", "qa_lead", presets.RoleQALead, false},
		{"Alias folds", "administrator", presets.RoleAdmin, false},
		{"Invalid role", "superuser", "", true},
		{"Empty role", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.ValidateRole(tt.role)
			if tt.shouldErr {
				assert.ErrorIs(t, err, rbac.ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	checker := newChecker(t)

	tests := []struct {
		name     string
		subject  *rbac.Subject
		resource rbac.Resource
		action   rbac.Action
		allowed  bool
	}{
		{"Owner manages organization", subject(presets.RoleOwner), presets.ResourceOrganization, presets.ActionManage, true},
		{"Admin cannot delete organization", subject(presets.RoleAdmin), presets.ResourceOrganization, presets.ActionDelete, false},
		{"Administrator alias writes assignments", subject(presets.RoleAdministrator), presets.ResourceRoleAssignment, presets.ActionWrite, true},
		{"QA manager writes assignments", subject(presets.RoleQAManager), presets.ResourceRoleAssignment, presets.ActionWrite, true},
		{"QA lead reads assignments", subject(presets.RoleQALead), presets.ResourceRoleAssignment, presets.ActionRead, true},
		{"QA lead cannot write assignments", subject(presets.RoleQALead), presets.ResourceRoleAssignment, presets.ActionWrite, false},
		{"Viewer cannot read members", subject(presets.RoleViewer), presets.ResourceMember, presets.ActionRead, false},
		{"Any held role suffices", subject(presets.RoleViewer, presets.RoleQAManager), presets.ResourceRoleAssignment, presets.ActionDelete, true},
		{"Unknown role denied", subject("ghost"), presets.ResourceProject, presets.ActionRead, false},
		{"No roles denied", subject(), presets.ResourceProject, presets.ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.Authorize(tt.subject, tt.resource, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, rbac.ErrDenied)
			}
			assert.Equal(t, tt.allowed, checker.IsAuthorized(tt.subject, tt.resource, tt.action))
		})
	}
}

func TestAuthorize_NilSubject(t *testing.T) {
	checker := newChecker(t)

	err := checker.Authorize(nil, presets.ResourceProject, presets.ActionRead)
	assert.ErrorIs(t, err, rbac.ErrDenied)
	assert.ErrorIs(t, err, rbac.ErrNilSubject)
}

func TestRequireRole(t *testing.T) {
	checker := newChecker(t)

	assert.NoError(t, checker.RequireRole(subject(presets.RoleViewer, presets.RoleAdmin), presets.RoleAdmin))

	err := checker.RequireRole(subject(presets.RoleQALead), presets.RoleAdmin)
	require.ErrorIs(t, err, rbac.ErrDenied)
	assert.Contains(t, err.Error(), "qa_lead")

	assert.ErrorIs(t, checker.RequireRole(subject(), presets.RoleViewer), rbac.ErrDenied)
}

func TestHighestRole(t *testing.T) {
	checker := newChecker(t)

	got, ok := checker.HighestRole([]rbac.Role{presets.RoleViewer, presets.RoleAdministrator, "ghost"})
	require.True(t, ok)
	assert.Equal(t, presets.RoleAdmin, got)

	_, ok = checker.HighestRole([]rbac.Role{"ghost"})
	assert.False(t, ok)
}

func TestActions_UnionInConfigOrder(t *testing.T) {
	checker := newChecker(t)

	got := checker.Actions([]rbac.Role{presets.RoleViewer, presets.RoleQAEngineer}, presets.ResourceDefect)
	assert.Equal(t, []rbac.Action{presets.ActionRead, presets.ActionWrite}, got)

	assert.Empty(t, checker.Actions([]rbac.Role{presets.RoleViewer}, presets.ResourceMember))
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		rbac.MustNew(rbac.Config{})
	})
}
