package repository

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/group"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"access-service/internal/domain/user"
	"context"

	"github.com/google/uuid"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// OrganizationRepository defines organization and membership data access operations
type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*organization.Organization, error)
	AddMember(ctx context.Context, input organization.AddMemberInput) (*organization.Member, error)
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*organization.Member, error)
	ListMembers(ctx context.Context, orgID uuid.UUID) ([]*organization.Member, error)
}

// ProjectRepository defines project data access operations
type ProjectRepository interface {
	Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*project.Project, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*project.Project, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// RoleRepository defines role data access operations
type RoleRepository interface {
	Create(ctx context.Context, input role.CreateRoleInput) (*role.Role, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*role.Role, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*role.Role, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	TypesForUser(ctx context.Context, orgID, userID uuid.UUID) ([]role.Type, error)
}

// GroupRepository defines group data access operations
type GroupRepository interface {
	Create(ctx context.Context, input group.CreateGroupInput) (*group.Group, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*group.Group, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*group.Group, error)
}

// AssignmentRepository defines role assignment data access operations
type AssignmentRepository interface {
	Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.RoleAssignment, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*assignment.RoleAssignment, error)
	List(ctx context.Context, filter assignment.ListFilter) ([]*assignment.RoleAssignment, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ListForReview(ctx context.Context, orgID uuid.UUID) ([]assignment.ReviewEntry, error)
}
