package group

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateGroupInput struct {
	OrganizationID uuid.UUID
	Name           string
	Description    string
}
