// Package resolver decides which project a new role assignment is recorded
// against, given the entity's current assignments.
package resolver

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Level classifies an advisory.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Advisory is a non-fatal message for the operator.
type Advisory struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Request is the snapshot a single assign action is resolved against.
type Request struct {
	Kind        assignment.EntityKind
	Role        *role.Role
	ProjectID   *uuid.UUID
	Assignments []assignment.RoleAssignment
	Projects    []project.Project
}

// Decision is the outcome of a successful resolution.
type Decision struct {
	Target           project.Project `json:"target_project"`
	Requested        *uuid.UUID      `json:"requested_project_id,omitempty"`
	OrganizationWide bool            `json:"organization_wide"`
	Substituted      bool            `json:"substituted"`
	Fallback         bool            `json:"fallback"`
	Advisories       []Advisory      `json:"advisories,omitempty"`
}

// IsOrganizationWide classifies r by its role_type alone.
func IsOrganizationWide(r role.Role) bool {
	return r.Type.IsOrganizationWide()
}

// CoveredProjects returns the ids of every project that already carries an
// assignment for the entity, whatever the role type.
func CoveredProjects(assignments []assignment.RoleAssignment) map[uuid.UUID]bool {
	covered := make(map[uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		if a.ProjectID != nil && *a.ProjectID != uuid.Nil {
			covered[*a.ProjectID] = true
		}
	}
	return covered
}

// Resolve picks the target project for req or rejects it. It performs no I/O.
func Resolve(req Request) (Decision, error) {
	if req.Role == nil {
		return Decision{}, reject(ErrNoRoleSelected, msgNoRoleSelected)
	}
	if len(req.Projects) == 0 {
		return Decision{}, reject(ErrNoProjectAvailable, msgNoProjectAvailable)
	}

	orgWide := IsOrganizationWide(*req.Role)
	chosen := explicitProject(req.ProjectID)
	if !orgWide && chosen == nil {
		return Decision{}, reject(ErrNoProjectSelected, msgNoProjectSelected)
	}

	covered := CoveredProjects(req.Assignments)
	d := Decision{
		Requested:        chosen,
		OrganizationWide: orgWide,
	}

	if chosen == nil {
		if p, ok := firstUncovered(req.Projects, covered); ok {
			d.Target = p
		} else {
			// Recorded against the first project even though it already has
			// an assignment; the warning asks for a manual follow-up.
			d.Target = req.Projects[0]
			d.Fallback = true
			d.Advisories = append(d.Advisories, Advisory{
				Level:   LevelWarning,
				Message: fmt.Sprintf(msgAllProjectsCoveredFmt, kindOf(req.Kind), d.Target.Label()),
			})
		}
	} else {
		p, ok := findProject(req.Projects, *chosen)
		if !ok {
			return Decision{}, reject(ErrUnknownProject, msgUnknownProjectFmt, chosen.String())
		}

		switch {
		case orgWide || !covered[p.ID]:
			d.Target = p
		default:
			alt, ok := firstUncovered(req.Projects, covered)
			if !ok {
				return Decision{}, reject(ErrAllProjectsAlreadyAssigned, msgAllProjectsAssignedFmt, titleOf(req.Kind))
			}
			d.Target = alt
			d.Substituted = true
			d.Advisories = append(d.Advisories, Advisory{
				Level:   LevelInfo,
				Message: fmt.Sprintf(msgSubstitutedFmt, titleOf(req.Kind), p.Label(), alt.Label()),
			})
		}
	}

	if dup, ok := findDuplicate(req.Assignments, *req.Role, d.Target.ID); ok {
		if orgWide {
			return Decision{}, reject(ErrDuplicateAssignment, msgDuplicateOrgWideFmt, titleOf(req.Kind), roleLabel(*req.Role, dup))
		}
		return Decision{}, reject(ErrDuplicateAssignment, msgDuplicateScopedFmt, titleOf(req.Kind), roleLabel(*req.Role, dup), d.Target.Label())
	}

	return d, nil
}

// findDuplicate matches on role id alone for organization-wide roles and on
// role id plus target project for project-scoped ones.
func findDuplicate(assignments []assignment.RoleAssignment, r role.Role, target uuid.UUID) (assignment.RoleAssignment, bool) {
	orgWide := IsOrganizationWide(r)
	for _, a := range assignments {
		if a.RoleID != r.ID {
			continue
		}
		if orgWide {
			return a, true
		}
		if a.ProjectID != nil && *a.ProjectID == target {
			return a, true
		}
	}
	return assignment.RoleAssignment{}, false
}

func explicitProject(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}

func firstUncovered(projects []project.Project, covered map[uuid.UUID]bool) (project.Project, bool) {
	for _, p := range projects {
		if !covered[p.ID] {
			return p, true
		}
	}
	return project.Project{}, false
}

func findProject(projects []project.Project, id uuid.UUID) (project.Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

func roleLabel(r role.Role, a assignment.RoleAssignment) string {
	if r.Name != "" {
		return r.Name
	}
	if a.Role.Name != "" {
		return a.Role.Name
	}
	return r.ID.String()
}

func titleOf(k assignment.EntityKind) string {
	return k.Title()
}

func kindOf(k assignment.EntityKind) string {
	return strings.ToLower(k.Title())
}
