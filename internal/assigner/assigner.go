// Package assigner runs one assign action end to end: load a snapshot over
// the API, resolve the target project, write, then refresh.
package assigner

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/role"
	"access-service/internal/resolver"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type AssignInput struct {
	OrgID     uuid.UUID
	Kind      assignment.EntityKind
	EntityID  uuid.UUID
	RoleID    uuid.UUID
	ProjectID *uuid.UUID
	DryRun    bool
}

// Outcome is what one Assign call did. Assignment and Refreshed stay empty on
// a dry run.
type Outcome struct {
	Decision   resolver.Decision           `json:"decision"`
	Assignment *assignment.RoleAssignment  `json:"assignment,omitempty"`
	Refreshed  []assignment.RoleAssignment `json:"refreshed,omitempty"`
}

type Assigner struct {
	api API
}

func New(api API) *Assigner {
	return &Assigner{api: api}
}

// Assign resolves in.ProjectID against the entity's current assignments and,
// unless DryRun, records the assignment on the resolved project. Rejections
// return before anything is written.
func (a *Assigner) Assign(ctx context.Context, in AssignInput) (*Outcome, error) {
	gw, err := GatewayFor(in.Kind, a.api)
	if err != nil {
		return nil, err
	}

	projects, err := a.api.ListProjects(ctx, in.OrgID)
	if err != nil {
		return nil, err
	}
	roles, err := a.api.ListRoles(ctx, in.OrgID)
	if err != nil {
		return nil, err
	}

	req := resolver.Request{
		Kind:      in.Kind,
		ProjectID: in.ProjectID,
		Projects:  projects,
	}
	if in.RoleID != uuid.Nil {
		r, ok := findRole(roles, in.RoleID)
		if !ok {
			return nil, resolver.UnknownRole(in.RoleID)
		}
		req.Role = &r
	}

	current, err := Snapshot(ctx, gw, in.OrgID, in.EntityID, projects)
	if err != nil {
		return nil, err
	}
	req.Assignments = current

	decision, err := resolver.Resolve(req)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Decision: decision}
	if in.DryRun {
		return out, nil
	}

	created, err := gw.CreateAssignment(ctx, in.OrgID, in.EntityID, in.RoleID, decision.Target.ID)
	if err != nil {
		return nil, err
	}
	out.Assignment = created
	slog.InfoContext(ctx, "role assigned",
		"entity_kind", in.Kind,
		"entity_id", in.EntityID,
		"role_id", in.RoleID,
		"project_id", decision.Target.ID,
		"substituted", decision.Substituted,
	)

	refreshed, err := Snapshot(ctx, gw, in.OrgID, in.EntityID, projects)
	if err != nil {
		// The write went through; a stale view is reported, not fatal.
		slog.WarnContext(ctx, "failed to refresh assignments", "error", err)
		return out, nil
	}
	out.Refreshed = refreshed
	return out, nil
}

// Unassign deletes one assignment by id.
func (a *Assigner) Unassign(ctx context.Context, orgID, assignmentID uuid.UUID) error {
	return a.api.DeleteAssignment(ctx, orgID, assignmentID)
}

// Current returns the entity's assignments the same way Assign sees them.
func (a *Assigner) Current(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID uuid.UUID) ([]assignment.RoleAssignment, error) {
	gw, err := GatewayFor(kind, a.api)
	if err != nil {
		return nil, err
	}
	projects, err := a.api.ListProjects(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return Snapshot(ctx, gw, orgID, entityID, projects)
}

func findRole(roles []role.Role, id uuid.UUID) (role.Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return role.Role{}, false
}
