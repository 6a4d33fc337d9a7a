package rbac

// Role is a role_type in the permission matrix (hierarchical)
type Role string

// Resource represents a type of resource in the system
type Resource string

// Action represents an operation on a resource
type Action string

// Subject is the caller being authorized. A user can hold several roles in
// one organization, one per assignment.
type Subject struct {
	UserID string
	Roles  []Role
}

// RoleDefinition defines a role and its privilege level
type RoleDefinition struct {
	Name  Role
	Level int
}

// Alias folds a legacy role name onto a canonical one
type Alias struct {
	From Role
	To   Role
}

// MatrixRow is one role's capabilities on one resource, in config order
type MatrixRow struct {
	Role     Role     `json:"role"`
	Level    int      `json:"level"`
	Resource Resource `json:"resource"`
	Actions  []Action `json:"actions"`
}
