package resolver

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"errors"

	"github.com/google/uuid"
)

// Form is the operator's input for one assign action. Zero ids mean unset.
type Form struct {
	Kind      assignment.EntityKind `json:"entity_kind"`
	EntityID  uuid.UUID             `json:"entity_id"`
	RoleID    uuid.UUID             `json:"role_id"`
	ProjectID uuid.UUID             `json:"project_id"`
}

// Snapshot is the read-only state a form is evaluated against.
type Snapshot struct {
	Roles       []role.Role                 `json:"roles"`
	Projects    []project.Project           `json:"projects"`
	Assignments []assignment.RoleAssignment `json:"assignments"`
}

// Rejection is the serializable form of a RejectionError.
type Rejection struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// FormView is what the presentation layer renders for a Form.
type FormView struct {
	Form             Form       `json:"form"`
	Role             *role.Role `json:"role,omitempty"`
	OrganizationWide bool       `json:"organization_wide"`
	ProjectRequired  bool       `json:"project_required"`
	CanSubmit        bool       `json:"can_submit"`
	Decision         *Decision  `json:"decision,omitempty"`
	Rejection        *Rejection `json:"rejection,omitempty"`
}

// Evaluate resolves form against snap without side effects. Incomplete forms
// come back with CanSubmit false rather than an error.
func Evaluate(form Form, snap Snapshot) FormView {
	view := FormView{Form: form}

	req := Request{
		Kind:        form.Kind,
		Assignments: snap.Assignments,
		Projects:    snap.Projects,
	}
	if form.ProjectID != uuid.Nil {
		pid := form.ProjectID
		req.ProjectID = &pid
	}

	if form.RoleID != uuid.Nil {
		r, ok := findRole(snap.Roles, form.RoleID)
		if !ok {
			view.Rejection = toRejection(UnknownRole(form.RoleID))
			return view
		}
		view.Role = &r
		view.OrganizationWide = IsOrganizationWide(r)
		view.ProjectRequired = !view.OrganizationWide
		req.Role = &r
	}

	d, err := Resolve(req)
	if err != nil {
		view.Rejection = toRejection(err)
		return view
	}

	view.Decision = &d
	view.CanSubmit = true
	return view
}

// Err returns the rejection as an error, or nil when the form can be submitted.
func (v FormView) Err() error {
	if v.Rejection == nil {
		return nil
	}
	for reason, code := range reasonCodes {
		if code == v.Rejection.Code {
			return &RejectionError{Reason: reason, Message: v.Rejection.Message}
		}
	}
	return errors.New(v.Rejection.Message)
}

func toRejection(err error) *Rejection {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return &Rejection{Code: rej.Code(), Message: rej.Message}
	}
	return &Rejection{Message: err.Error()}
}

func findRole(roles []role.Role, id uuid.UUID) (role.Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return role.Role{}, false
}
