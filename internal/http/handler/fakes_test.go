package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/group"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"access-service/internal/domain/user"
	"access-service/internal/infra/s3"
	"access-service/internal/policy"
	apperrors "access-service/pkg/errors"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type auditRecord struct {
	resource audit.ResourceType
	action   audit.Action
	status   audit.Status
}

type fakeAudit struct {
	records []auditRecord
}

func (f *fakeAudit) LogFromContext(_ echo.Context, rt audit.ResourceType, _ *uuid.UUID, action audit.Action, status audit.Status, _ map[string]any) error {
	f.records = append(f.records, auditRecord{rt, action, status})
	return nil
}

func (f *fakeAudit) LogError(_ echo.Context, rt audit.ResourceType, _ *uuid.UUID, action audit.Action, _ error) error {
	f.records = append(f.records, auditRecord{rt, action, audit.StatusFailure})
	return nil
}

func (f *fakeAudit) last() auditRecord {
	if len(f.records) == 0 {
		return auditRecord{}
	}
	return f.records[len(f.records)-1]
}

type fakeUsers struct {
	byEmail   map[string]*user.User
	createErr error
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func (f *fakeUsers) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := &user.User{ID: uuid.New(), Email: input.Email, Name: input.Name, PasswordHash: input.PasswordHash}
	if f.byEmail == nil {
		f.byEmail = map[string]*user.User{}
	}
	f.byEmail[input.Email] = u
	return u, nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(userID uuid.UUID, _ string) (string, error) {
	return "token-" + userID.String(), nil
}

type fakeRoles struct {
	roles []*role.Role
	held  []role.Type
}

func (f *fakeRoles) Create(_ context.Context, input role.CreateRoleInput) (*role.Role, error) {
	r := &role.Role{ID: uuid.New(), OrganizationID: input.OrganizationID, Name: input.Name, Type: input.Type}
	f.roles = append(f.roles, r)
	return r, nil
}

func (f *fakeRoles) GetByID(_ context.Context, _, id uuid.UUID) (*role.Role, error) {
	for _, r := range f.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NotFound("role not found")
}

func (f *fakeRoles) ListByOrganization(context.Context, uuid.UUID) ([]*role.Role, error) {
	return f.roles, nil
}

func (f *fakeRoles) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeRoles) TypesForUser(context.Context, uuid.UUID, uuid.UUID) ([]role.Type, error) {
	return f.held, nil
}

type fakeProjects struct {
	projects []*project.Project
}

func (f *fakeProjects) Create(_ context.Context, input project.CreateProjectInput) (*project.Project, error) {
	p := &project.Project{ID: uuid.New(), OrganizationID: input.OrganizationID, Name: input.Name}
	f.projects = append(f.projects, p)
	return p, nil
}

func (f *fakeProjects) GetByID(_ context.Context, _, id uuid.UUID) (*project.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("project not found")
}

func (f *fakeProjects) ListByOrganization(context.Context, uuid.UUID) ([]*project.Project, error) {
	return f.projects, nil
}

func (f *fakeProjects) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

type fakeGroups struct {
	groups []*group.Group
}

func (f *fakeGroups) Create(_ context.Context, input group.CreateGroupInput) (*group.Group, error) {
	g := &group.Group{ID: uuid.New(), OrganizationID: input.OrganizationID, Name: input.Name}
	f.groups = append(f.groups, g)
	return g, nil
}

func (f *fakeGroups) GetByID(_ context.Context, _, id uuid.UUID) (*group.Group, error) {
	for _, g := range f.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, apperrors.NotFound("group not found")
}

func (f *fakeGroups) ListByOrganization(context.Context, uuid.UUID) ([]*group.Group, error) {
	return f.groups, nil
}

type fakeMembers struct {
	members map[uuid.UUID]bool
	err     error
}

func (f *fakeMembers) GetMember(_ context.Context, orgID, userID uuid.UUID) (*organization.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.members[userID] {
		return nil, apperrors.NotFound("member not found")
	}
	return &organization.Member{OrganizationID: orgID, UserID: userID}, nil
}

type fakeAssignments struct {
	assignments []*assignment.RoleAssignment
	createErr   error
	created     []assignment.CreateAssignmentInput
	deleted     []uuid.UUID
}

func (f *fakeAssignments) Create(_ context.Context, input assignment.CreateAssignmentInput) (*assignment.RoleAssignment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	pid := input.ProjectID
	a := &assignment.RoleAssignment{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		RoleID:         input.RoleID,
		EntityKind:     input.EntityKind,
		EntityID:       input.EntityID,
		ProjectID:      &pid,
	}
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeAssignments) GetByID(_ context.Context, _, id uuid.UUID) (*assignment.RoleAssignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NotFound("assignment not found")
}

func (f *fakeAssignments) List(_ context.Context, filter assignment.ListFilter) ([]*assignment.RoleAssignment, error) {
	var out []*assignment.RoleAssignment
	for _, a := range f.assignments {
		if a.EntityKind != filter.EntityKind || a.EntityID != filter.EntityID {
			continue
		}
		if filter.ProjectID != nil && (a.ProjectID == nil || *a.ProjectID != *filter.ProjectID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssignments) Delete(_ context.Context, _, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAssignments) ListForReview(context.Context, uuid.UUID) ([]assignment.ReviewEntry, error) {
	out := make([]assignment.ReviewEntry, 0, len(f.assignments))
	for _, a := range f.assignments {
		out = append(out, assignment.ReviewEntry{AssignmentID: a.ID, EntityKind: a.EntityKind, EntityID: a.EntityID})
	}
	return out, nil
}

type fakePolicy struct {
	decision policy.Decision
	err      error
	caller   policy.Caller
	grant    policy.Grant
}

func (f *fakePolicy) Evaluate(_ context.Context, caller policy.Caller, grant policy.Grant) (policy.Decision, error) {
	f.caller, f.grant = caller, grant
	return f.decision, f.err
}

type invalidation struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

type fakeInvalidator struct {
	subjects []invalidation
	orgs     []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(orgID, userID uuid.UUID) {
	f.subjects = append(f.subjects, invalidation{orgID, userID})
}

func (f *fakeInvalidator) InvalidateOrganization(orgID uuid.UUID) {
	f.orgs = append(f.orgs, orgID)
}

type fakeExporter struct {
	report s3.Report
	err    error
}

func (f *fakeExporter) ExportReview(_ context.Context, report s3.Report) (*s3.Export, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.report = report
	return &s3.Export{Key: "reviews/key.json", URL: "https://example.test/key.json"}, nil
}

type fakeEvents struct {
	filter audit.QueryFilter
}

func (f *fakeEvents) Query(_ context.Context, filter audit.QueryFilter) ([]*audit.Event, error) {
	f.filter = filter
	return []*audit.Event{}, nil
}

// newJSONContext builds a request context for a caller already resolved by
// the auth middleware. A zero orgID leaves the organization unset.
func newJSONContext(method, target, body string, userID, orgID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set(auth.ContextKeyUserID, userID)
	}
	if orgID != uuid.Nil {
		c.Set(auth.ContextKeyOrgID, orgID)
	}
	return c, rec
}
