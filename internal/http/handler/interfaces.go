package handler

import (
	"access-service/internal/audit"
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/group"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"access-service/internal/domain/user"
	"access-service/internal/infra/s3"
	"access-service/internal/policy"
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers.

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
}

type TokenGenerator interface {
	Generate(userID uuid.UUID, email string) (string, error)
}

type OrganizationCreator interface {
	CreateOrganizationTransaction(ctx context.Context, input organization.CreateOrganizationInput) (*organization.Bootstrap, error)
}

type OrganizationRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*organization.Organization, error)
	AddMember(ctx context.Context, input organization.AddMemberInput) (*organization.Member, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]*organization.Member, error)
}

type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*project.Project, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*project.Project, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type RoleRepository interface {
	Create(ctx context.Context, input role.CreateRoleInput) (*role.Role, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*role.Role, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*role.Role, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	TypesForUser(ctx context.Context, orgID, userID uuid.UUID) ([]role.Type, error)
}

type GroupRepository interface {
	Create(ctx context.Context, input group.CreateGroupInput) (*group.Group, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*group.Group, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*group.Group, error)
}

type MemberGetter interface {
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*organization.Member, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.RoleAssignment, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*assignment.RoleAssignment, error)
	List(ctx context.Context, filter assignment.ListFilter) ([]*assignment.RoleAssignment, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type ReviewSource interface {
	ListForReview(ctx context.Context, orgID uuid.UUID) ([]assignment.ReviewEntry, error)
}

type GrantPolicy interface {
	Evaluate(ctx context.Context, caller policy.Caller, grant policy.Grant) (policy.Decision, error)
}

// PermissionInvalidator drops cached authorization decisions.
type PermissionInvalidator interface {
	Invalidate(orgID, userID uuid.UUID)
	InvalidateOrganization(orgID uuid.UUID)
}

type ReviewExporter interface {
	ExportReview(ctx context.Context, report s3.Report) (*s3.Export, error)
}

type AuditLogger interface {
	LogFromContext(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, status audit.Status, metadata map[string]any) error
	LogError(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, err error) error
}

type AuditReader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}
