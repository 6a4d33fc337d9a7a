package assigner

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// API is the slice of the REST client the assigner needs.
type API interface {
	ListProjects(ctx context.Context, orgID uuid.UUID) ([]project.Project, error)
	ListRoles(ctx context.Context, orgID uuid.UUID) ([]role.Role, error)
	ListAssignments(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID uuid.UUID, projectID *uuid.UUID) ([]assignment.RoleAssignment, error)
	CreateAssignment(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID, roleID, projectID uuid.UUID) (*assignment.RoleAssignment, error)
	DeleteAssignment(ctx context.Context, orgID, assignmentID uuid.UUID) error
}

// Gateway reads and writes the assignments of one kind of entity.
type Gateway interface {
	Kind() assignment.EntityKind
	ListAssignments(ctx context.Context, orgID, entityID uuid.UUID, projectID *uuid.UUID) ([]assignment.RoleAssignment, error)
	CreateAssignment(ctx context.Context, orgID, entityID, roleID, projectID uuid.UUID) (*assignment.RoleAssignment, error)
}

// Snapshot loads everything the entity currently holds.
func Snapshot(ctx context.Context, gw Gateway, orgID, entityID uuid.UUID, projects []project.Project) ([]assignment.RoleAssignment, error) {
	if s, ok := gw.(snapshotter); ok {
		return s.snapshot(ctx, orgID, entityID, projects)
	}
	return gw.ListAssignments(ctx, orgID, entityID, nil)
}

type snapshotter interface {
	snapshot(ctx context.Context, orgID, entityID uuid.UUID, projects []project.Project) ([]assignment.RoleAssignment, error)
}

// GatewayFor picks the gateway for kind.
func GatewayFor(kind assignment.EntityKind, api API) (Gateway, error) {
	switch kind {
	case assignment.EntityKindUser:
		return userGateway{api: api}, nil
	case assignment.EntityKindGroup:
		return groupGateway{api: api}, nil
	default:
		return nil, fmt.Errorf("unsupported entity kind: %q", kind)
	}
}

type userGateway struct {
	api API
}

func (userGateway) Kind() assignment.EntityKind {
	return assignment.EntityKindUser
}

func (g userGateway) ListAssignments(ctx context.Context, orgID, entityID uuid.UUID, projectID *uuid.UUID) ([]assignment.RoleAssignment, error) {
	return g.api.ListAssignments(ctx, orgID, assignment.EntityKindUser, entityID, projectID)
}

func (g userGateway) CreateAssignment(ctx context.Context, orgID, entityID, roleID, projectID uuid.UUID) (*assignment.RoleAssignment, error) {
	return g.api.CreateAssignment(ctx, orgID, assignment.EntityKindUser, entityID, roleID, projectID)
}

// snapshot fetches a user's assignments once per project and merges them,
// keeping the first copy of each assignment id.
func (g userGateway) snapshot(ctx context.Context, orgID, entityID uuid.UUID, projects []project.Project) ([]assignment.RoleAssignment, error) {
	seen := make(map[uuid.UUID]bool)
	var merged []assignment.RoleAssignment

	for _, p := range projects {
		pid := p.ID
		batch, err := g.ListAssignments(ctx, orgID, entityID, &pid)
		if err != nil {
			return nil, err
		}
		for _, a := range batch {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			merged = append(merged, a)
		}
	}
	return merged, nil
}

type groupGateway struct {
	api API
}

func (groupGateway) Kind() assignment.EntityKind {
	return assignment.EntityKindGroup
}

func (g groupGateway) ListAssignments(ctx context.Context, orgID, entityID uuid.UUID, projectID *uuid.UUID) ([]assignment.RoleAssignment, error) {
	return g.api.ListAssignments(ctx, orgID, assignment.EntityKindGroup, entityID, projectID)
}

func (g groupGateway) CreateAssignment(ctx context.Context, orgID, entityID, roleID, projectID uuid.UUID) (*assignment.RoleAssignment, error) {
	return g.api.CreateAssignment(ctx, orgID, assignment.EntityKindGroup, entityID, roleID, projectID)
}
