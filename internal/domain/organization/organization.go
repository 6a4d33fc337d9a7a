package organization

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a user's membership in an organization.
type Member struct {
	OrganizationID uuid.UUID  `json:"organization_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	AddedBy        *uuid.UUID `json:"added_by,omitempty"`
	AddedAt        time.Time  `json:"added_at"`
}

type CreateOrganizationInput struct {
	Name      string
	CreatedBy uuid.UUID
}

type AddMemberInput struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	AddedBy        uuid.UUID
}

// Bootstrap is everything created alongside a new organization.
type Bootstrap struct {
	Organization   *Organization              `json:"organization"`
	DefaultProject *project.Project           `json:"default_project"`
	Roles          []role.Role                `json:"roles"`
	Owner          *assignment.RoleAssignment `json:"owner_assignment"`
}
