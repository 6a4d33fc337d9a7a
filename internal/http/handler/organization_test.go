package handler

import (
	"access-service/internal/audit"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/user"
	apperrors "access-service/pkg/errors"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrgs struct {
	created   []organization.CreateOrganizationInput
	createErr error
	members   []organization.AddMemberInput
	addErr    error
}

func (f *fakeOrgs) CreateOrganizationTransaction(_ context.Context, input organization.CreateOrganizationInput) (*organization.Bootstrap, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	org := &organization.Organization{ID: uuid.New(), Name: input.Name}
	return &organization.Bootstrap{
		Organization:   org,
		DefaultProject: &project.Project{ID: uuid.New(), OrganizationID: org.ID, Name: "Default"},
	}, nil
}

func (f *fakeOrgs) ListByUser(context.Context, uuid.UUID) ([]*organization.Organization, error) {
	return nil, nil
}

func (f *fakeOrgs) AddMember(_ context.Context, input organization.AddMemberInput) (*organization.Member, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.members = append(f.members, input)
	return &organization.Member{OrganizationID: input.OrganizationID, UserID: input.UserID}, nil
}

func (f *fakeOrgs) ListMembers(context.Context, uuid.UUID) ([]*organization.Member, error) {
	return nil, nil
}

func TestCreateOrganization(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantAudit  audit.Status
	}{
		{"created", `{"name":"Acme QA"}`, nil, http.StatusCreated, audit.StatusSuccess},
		{"name trimmed", `{"name":"  Acme  "}`, nil, http.StatusCreated, audit.StatusSuccess},
		{"empty name", `{"name":"   "}`, nil, http.StatusBadRequest, ""},
		{"unknown field", `{"name":"Acme","plan":"pro"}`, nil, http.StatusBadRequest, ""},
		{"transaction fails", `{"name":"Acme"}`, errors.New("tx aborted"), http.StatusInternalServerError, audit.StatusFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orgs := &fakeOrgs{createErr: tt.createErr}
			auditLog := &fakeAudit{}
			h := NewOrganizationHandler(orgs, orgs, &fakeUsers{}, auditLog)
			userID := uuid.New()

			c, rec := newJSONContext(http.MethodPost, "/api/v1/organizations", tt.body, userID, uuid.Nil)
			require.NoError(t, h.CreateOrganization(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAudit, auditLog.last().status)
			if tt.wantStatus == http.StatusCreated {
				require.Len(t, orgs.created, 1)
				assert.Equal(t, userID, orgs.created[0].CreatedBy)
				assert.NotContains(t, orgs.created[0].Name, " A")
				assert.Contains(t, rec.Body.String(), `"default_project"`)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "tx aborted")
			}
		})
	}
}

func TestAddMember(t *testing.T) {
	existing := &user.User{ID: uuid.New(), Email: "ada@example.com"}

	tests := []struct {
		name       string
		body       string
		addErr     error
		wantStatus int
	}{
		{"added", `{"email":"ada@example.com"}`, nil, http.StatusCreated},
		{"email normalized", `{"email":"  ADA@example.com "}`, nil, http.StatusCreated},
		{"invalid email", `{"email":"not-an-email"}`, nil, http.StatusBadRequest},
		{"unknown user", `{"email":"bob@example.com"}`, nil, http.StatusNotFound},
		{"already a member", `{"email":"ada@example.com"}`, apperrors.Conflict("member exists"), http.StatusConflict},
		{"repository failure", `{"email":"ada@example.com"}`, errors.New("conn reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orgs := &fakeOrgs{addErr: tt.addErr}
			users := &fakeUsers{byEmail: map[string]*user.User{existing.Email: existing}}
			auditLog := &fakeAudit{}
			h := NewOrganizationHandler(orgs, orgs, users, auditLog)
			orgID := uuid.New()

			c, rec := newJSONContext(http.MethodPost, "/members", tt.body, uuid.New(), orgID)
			require.NoError(t, h.AddMember(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				require.Len(t, orgs.members, 1)
				assert.Equal(t, existing.ID, orgs.members[0].UserID)
				assert.Equal(t, orgID, orgs.members[0].OrganizationID)
				assert.Equal(t, audit.ResourceTypeMember, auditLog.last().resource)
			}
		})
	}
}

func TestCreateGroup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"created", `{"name":"QA Team","description":"testers"}`, http.StatusCreated},
		{"empty name", `{"name":""}`, http.StatusBadRequest},
		{"control characters", `{"name":"QA\u0007Team"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := &fakeGroups{}
			h := NewGroupHandler(groups, &fakeAudit{})

			c, rec := newJSONContext(http.MethodPost, "/groups", tt.body, uuid.New(), uuid.New())
			require.NoError(t, h.CreateGroup(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				require.Len(t, groups.groups, 1)
				assert.Equal(t, "QA Team", groups.groups[0].Name)
			} else {
				assert.Empty(t, groups.groups)
			}
		})
	}
}
