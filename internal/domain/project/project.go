package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Label is the name shown to operators, falling back to the id.
func (p Project) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID.String()
}

type CreateProjectInput struct {
	OrganizationID uuid.UUID
	Name           string
	Description    string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
}
