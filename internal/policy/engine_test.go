package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := New(ctx, "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		callerRole []string
		roleType   string
		allow      bool
		reason     string
	}{
		{"owner grants owner", []string{"owner"}, "owner", true, ""},
		{"admin cannot grant owner", []string{"admin"}, "owner", false, "only an owner may grant the owner role"},
		{"admin grants admin", []string{"admin"}, "admin", true, ""},
		{"administrator alias grants admin", []string{"administrator"}, "admin", true, ""},
		{"qa manager cannot grant admin", []string{"qa_manager"}, "admin", false, "only an owner or admin may grant an organization-wide role"},
		{"qa manager grants viewer", []string{"qa_manager"}, "viewer", true, ""},
		{"any held role counts", []string{"viewer", "owner"}, "owner", true, ""},
		{"custom scoped type", []string{"qa_lead"}, "release_captain", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.Evaluate(ctx, Caller{UserID: "u-1", Roles: tt.callerRole}, Grant{RoleType: tt.roleType, EntityKind: "user"})
			require.NoError(t, err)
			assert.Equal(t, tt.allow, d.Allow)
			if tt.reason != "" {
				assert.Contains(t, d.Reasons, tt.reason)
			} else {
				assert.Empty(t, d.Reasons)
			}
		})
	}
}

func TestEngine_OwnerGrantDeniedForNonAdminCollectsBothReasons(t *testing.T) {
	ctx := context.Background()
	engine, err := New(ctx, "")
	require.NoError(t, err)

	d, err := engine.Evaluate(ctx, Caller{Roles: []string{"viewer"}}, Grant{RoleType: "owner"})
	require.NoError(t, err)

	assert.False(t, d.Allow)
	assert.Len(t, d.Reasons, 2)
}

func TestEngine_HealthCheck(t *testing.T) {
	ctx := context.Background()
	engine, err := New(ctx, "")
	require.NoError(t, err)

	assert.NoError(t, engine.HealthCheck(ctx))
}

func TestNew_InvalidModule(t *testing.T) {
	_, err := New(context.Background(), "package access.assignment\n\nallow if {")
	assert.Error(t, err)
}

func TestNewFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "deny_all.rego")
	module := `package access.assignment

decision := {"allow": false, "reasons": {"grants are frozen"}}
`
	require.NoError(t, os.WriteFile(path, []byte(module), 0o600))

	engine, err := NewFromFile(ctx, path)
	require.NoError(t, err)

	d, err := engine.Evaluate(ctx, Caller{Roles: []string{"owner"}}, Grant{RoleType: "viewer"})
	require.NoError(t, err)
	assert.False(t, d.Allow)
	assert.Equal(t, []string{"grants are frozen"}, d.Reasons)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.rego"))
	assert.Error(t, err)
}

func TestEngine_NoDecision(t *testing.T) {
	ctx := context.Background()
	engine, err := New(ctx, "package access.assignment\n\nallow := true\n")
	require.NoError(t, err)

	_, err = engine.Evaluate(ctx, Caller{}, Grant{})
	assert.ErrorIs(t, err, ErrNoResult)
}
