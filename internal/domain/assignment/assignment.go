package assignment

import (
	"access-service/internal/domain/role"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityKind tags the subject of an assignment.
type EntityKind string

const (
	EntityKindUser  EntityKind = "user"
	EntityKindGroup EntityKind = "group"

	errInvalidEntityKindFmt = "invalid entity kind: %s"
)

func (k EntityKind) Validate() error {
	switch k {
	case EntityKindUser, EntityKindGroup:
		return nil
	default:
		return fmt.Errorf(errInvalidEntityKindFmt, k)
	}
}

// Plural is the path segment used by the assignment routes.
func (k EntityKind) Plural() string {
	return string(k) + "s"
}

// Title is the capitalised kind used in operator messages.
func (k EntityKind) Title() string {
	switch k {
	case EntityKindGroup:
		return "Group"
	default:
		return "User"
	}
}

// ParseEntityKind accepts the singular or plural form.
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "user", "users":
		return EntityKindUser, nil
	case "group", "groups":
		return EntityKindGroup, nil
	default:
		return "", fmt.Errorf(errInvalidEntityKindFmt, s)
	}
}

// RoleAssignment links an entity to a role, and for project-scoped roles to a
// project. Organization-wide assignments still carry the project they were
// recorded against.
type RoleAssignment struct {
	ID             uuid.UUID    `json:"id"`
	OrganizationID uuid.UUID    `json:"organization_id"`
	RoleID         uuid.UUID    `json:"role_id"`
	Role           role.Summary `json:"role"`
	EntityKind     EntityKind   `json:"entity_kind"`
	EntityID       uuid.UUID    `json:"entity_id"`
	ProjectID      *uuid.UUID   `json:"project_id"`
	CreatedBy      *uuid.UUID   `json:"created_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

type CreateAssignmentInput struct {
	OrganizationID uuid.UUID
	RoleID         uuid.UUID
	EntityKind     EntityKind
	EntityID       uuid.UUID
	ProjectID      uuid.UUID
	CreatedBy      uuid.UUID
}

type ListFilter struct {
	OrganizationID uuid.UUID
	EntityKind     EntityKind
	EntityID       uuid.UUID
	ProjectID      *uuid.UUID
}

// ReviewEntry is one row of an access review export.
type ReviewEntry struct {
	AssignmentID uuid.UUID  `json:"assignment_id"`
	EntityKind   EntityKind `json:"entity_kind"`
	EntityID     uuid.UUID  `json:"entity_id"`
	EntityName   string     `json:"entity_name"`
	RoleName     string     `json:"role_name"`
	RoleType     role.Type  `json:"role_type"`
	ProjectID    *uuid.UUID `json:"project_id,omitempty"`
	ProjectName  string     `json:"project_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
