package role

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Type is the role_type tag carried by every role.
type Type string

const (
	TypeOwner         Type = "owner"
	TypeAdmin         Type = "admin"
	TypeAdministrator Type = "administrator"
	TypeQAManager     Type = "qa_manager"
	TypeQALead        Type = "qa_lead"
	TypeQAEngineer    Type = "qa_engineer"
	TypeProductOwner  Type = "product_owner"
	TypeViewer        Type = "viewer"

	maxTypeLength      = 64
	errTypeEmptyFmt    = "role type cannot be empty"
	errTypeTooLongFmt  = "role type must not exceed %d characters"
	errTypeInvalidFmt  = "invalid role type: %s"
	errTypeReservedFmt = "role type %s is reserved for system roles"
)

var typePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsOrganizationWide reports whether an assignment of this type spans every
// project in the organization. Exactly owner, admin and administrator do.
func (t Type) IsOrganizationWide() bool {
	switch t {
	case TypeOwner, TypeAdmin, TypeAdministrator:
		return true
	default:
		return false
	}
}

// Canonical folds aliases onto the type used by the permission matrix.
func (t Type) Canonical() Type {
	if t == TypeAdministrator {
		return TypeAdmin
	}
	return t
}

// IsBuiltin reports whether t is one of the seeded system types.
func (t Type) IsBuiltin() bool {
	for _, b := range BuiltinTypes() {
		if t == b {
			return true
		}
	}
	return t == TypeAdministrator
}

// Validate checks the tag shape. Custom tags are allowed.
func (t Type) Validate() error {
	if t == "" {
		return fmt.Errorf(errTypeEmptyFmt)
	}
	if len(t) > maxTypeLength {
		return fmt.Errorf(errTypeTooLongFmt, maxTypeLength)
	}
	if !typePattern.MatchString(string(t)) {
		return fmt.Errorf(errTypeInvalidFmt, t)
	}
	return nil
}

// ValidateCustom rejects types that only system roles may carry.
func (t Type) ValidateCustom() error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.IsOrganizationWide() {
		return fmt.Errorf(errTypeReservedFmt, t)
	}
	return nil
}

// BuiltinTypes lists the system role types seeded into every organization,
// most privileged first.
func BuiltinTypes() []Type {
	return []Type{
		TypeOwner,
		TypeAdmin,
		TypeQAManager,
		TypeProductOwner,
		TypeQALead,
		TypeQAEngineer,
		TypeViewer,
	}
}

// DisplayName is the name a seeded system role is created with.
func DisplayName(t Type) string {
	switch t.Canonical() {
	case TypeOwner:
		return "Owner"
	case TypeAdmin:
		return "Admin"
	case TypeQAManager:
		return "QA Manager"
	case TypeProductOwner:
		return "Product Owner"
	case TypeQALead:
		return "QA Lead"
	case TypeQAEngineer:
		return "QA Engineer"
	case TypeViewer:
		return "Viewer"
	default:
		return string(t)
	}
}

type Role struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Type           Type      `json:"role_type"`
	Description    string    `json:"description,omitempty"`
	IsSystem       bool      `json:"is_system"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsOrganizationWide is shorthand for r.Type.IsOrganizationWide.
func (r Role) IsOrganizationWide() bool {
	return r.Type.IsOrganizationWide()
}

// Summary is the role shape embedded in assignment listings.
type Summary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type Type      `json:"role_type"`
}

func (r Role) Summary() Summary {
	return Summary{ID: r.ID, Name: r.Name, Type: r.Type}
}

type CreateRoleInput struct {
	OrganizationID uuid.UUID
	Name           string
	Type           Type
	Description    string
	IsSystem       bool
}
