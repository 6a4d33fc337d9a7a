package resolver

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	snap := Snapshot{
		Roles:       []role.Role{qaLead, viewer, admin},
		Projects:    []project.Project{p1, p2},
		Assignments: []assignment.RoleAssignment{held(qaLead, p1)},
	}

	t.Run("empty form cannot be submitted", func(t *testing.T) {
		view := Evaluate(Form{Kind: assignment.EntityKindUser}, snap)

		assert.False(t, view.CanSubmit)
		assert.Nil(t, view.Role)
		require.NotNil(t, view.Rejection)
		assert.Equal(t, CodeNoRoleSelected, view.Rejection.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		view := Evaluate(Form{Kind: assignment.EntityKindUser, RoleID: uuid.New()}, snap)

		assert.False(t, view.CanSubmit)
		require.NotNil(t, view.Rejection)
		assert.Equal(t, CodeUnknownRole, view.Rejection.Code)
	})

	t.Run("scoped role without project", func(t *testing.T) {
		view := Evaluate(Form{Kind: assignment.EntityKindUser, RoleID: viewer.ID}, snap)

		assert.True(t, view.ProjectRequired)
		assert.False(t, view.OrganizationWide)
		assert.False(t, view.CanSubmit)
		assert.ErrorIs(t, view.Err(), ErrNoProjectSelected)
	})

	t.Run("organization-wide role hides project", func(t *testing.T) {
		view := Evaluate(Form{Kind: assignment.EntityKindUser, RoleID: admin.ID}, snap)

		assert.True(t, view.OrganizationWide)
		assert.False(t, view.ProjectRequired)
		assert.True(t, view.CanSubmit)
		require.NotNil(t, view.Decision)
		assert.Equal(t, p2.ID, view.Decision.Target.ID)
		assert.NoError(t, view.Err())
	})

	t.Run("substitution is previewed", func(t *testing.T) {
		view := Evaluate(Form{Kind: assignment.EntityKindUser, RoleID: viewer.ID, ProjectID: p1.ID}, snap)

		require.True(t, view.CanSubmit)
		assert.True(t, view.Decision.Substituted)
		assert.Equal(t, p2.ID, view.Decision.Target.ID)
	})
}

func TestFormView_ErrRoundTrip(t *testing.T) {
	snap := Snapshot{
		Roles:       []role.Role{viewer},
		Projects:    []project.Project{p1},
		Assignments: []assignment.RoleAssignment{held(qaLead, p1)},
	}

	view := Evaluate(Form{Kind: assignment.EntityKindGroup, RoleID: viewer.ID, ProjectID: p1.ID}, snap)
	err := view.Err()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllProjectsAlreadyAssigned)
	assert.Equal(t, view.Rejection.Message, err.Error())
	assert.Contains(t, err.Error(), "Group already has a role on every project")
}
