package resolver

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNoRoleSelected             = errors.New("no role selected")
	ErrUnknownRole                = errors.New("unknown role")
	ErrNoProjectSelected          = errors.New("no project selected")
	ErrNoProjectAvailable         = errors.New("no project available")
	ErrUnknownProject             = errors.New("unknown project")
	ErrAllProjectsAlreadyAssigned = errors.New("all projects already assigned")
	ErrDuplicateAssignment        = errors.New("duplicate assignment")
)

const (
	msgNoRoleSelected         = "select a role to assign"
	msgUnknownRoleFmt         = "role %s does not exist in this organization"
	msgNoProjectSelected      = "select a project for a project-scoped role"
	msgNoProjectAvailable     = "no project exists to assign against; create a project first"
	msgUnknownProjectFmt      = "project %s does not exist in this organization"
	msgAllProjectsAssignedFmt = "%s already has a role on every project; remove an existing assignment first, or use an organization-wide role instead"
	msgDuplicateOrgWideFmt    = "%s already holds the organization-wide role %s"
	msgDuplicateScopedFmt     = "%s already holds role %s on %s"
	msgSubstitutedFmt         = "%s already has a role on %s; assigning to %s instead"
	msgAllProjectsCoveredFmt  = "every project already has a role assigned for this %s; assigning to %s, existing assignments may need manual cleanup"
)

// Code is the stable, serializable name of a rejection reason.
type Code string

const (
	CodeNoRoleSelected             Code = "no_role_selected"
	CodeUnknownRole                Code = "unknown_role"
	CodeNoProjectSelected          Code = "no_project_selected"
	CodeNoProjectAvailable         Code = "no_project_available"
	CodeUnknownProject             Code = "unknown_project"
	CodeAllProjectsAlreadyAssigned Code = "all_projects_already_assigned"
	CodeDuplicateAssignment        Code = "duplicate_assignment"
)

var reasonCodes = map[error]Code{
	ErrNoRoleSelected:             CodeNoRoleSelected,
	ErrUnknownRole:                CodeUnknownRole,
	ErrNoProjectSelected:          CodeNoProjectSelected,
	ErrNoProjectAvailable:         CodeNoProjectAvailable,
	ErrUnknownProject:             CodeUnknownProject,
	ErrAllProjectsAlreadyAssigned: CodeAllProjectsAlreadyAssigned,
	ErrDuplicateAssignment:        CodeDuplicateAssignment,
}

// RejectionError carries the reason category and the operator-facing message.
type RejectionError struct {
	Reason  error
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// Code returns the serializable reason code.
func (e *RejectionError) Code() Code {
	return reasonCodes[e.Reason]
}

func reject(reason error, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// UnknownRole rejects a role id that is not in the organization's role list.
func UnknownRole(id uuid.UUID) *RejectionError {
	return reject(ErrUnknownRole, msgUnknownRoleFmt, id.String())
}

// IsPrecondition reports whether err means the form is incomplete rather than
// refused by policy.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoRoleSelected) ||
		errors.Is(err, ErrNoProjectSelected)
}
