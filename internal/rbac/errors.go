package rbac

import "errors"

var (
	ErrDenied      = errors.New("authorization denied")
	ErrNilSubject  = errors.New("subject is nil")
	ErrInvalidRole = errors.New("invalid role")
)

const (
	errConfigRolesEmpty                   = "rbac config: Roles must not be empty"
	errConfigResourcesEmpty               = "rbac config: Resources must not be empty"
	errConfigActionsEmpty                 = "rbac config: Actions must not be empty"
	errConfigCapabilitiesEmpty            = "rbac config: Capabilities must not be empty"
	errConfigRoleNameEmpty                = "rbac config: role name must not be empty"
	errConfigDuplicateRoleNameFmt         = "rbac config: duplicate role name: %s"
	errConfigDuplicateRoleLevelFmt        = "rbac config: duplicate role level %d (roles %s and %s)"
	errConfigResourceEmpty                = "rbac config: resource must not be empty"
	errConfigDuplicateResourceFmt         = "rbac config: duplicate resource: %s"
	errConfigActionEmpty                  = "rbac config: action must not be empty"
	errConfigDuplicateActionFmt           = "rbac config: duplicate action: %s"
	errConfigCapabilityUnknownRoleFmt     = "rbac config: capability references unknown role: %s"
	errConfigCapabilityUnknownResourceFmt = "rbac config: capability for role %s references unknown resource: %s"
	errConfigCapabilityUnknownActionFmt   = "rbac config: capability for role %s on resource %s references unknown action: %s"
	errConfigAliasUnknownTargetFmt        = "rbac config: alias %s points at unknown role: %s"
	errConfigAliasShadowsRoleFmt          = "rbac config: alias %s shadows a defined role"
	errMustNewPanicFmt                    = "rbac.MustNew: %v"
	errDeniedNoRoles                      = "subject holds no role"
	errDeniedMinRoleRequiredFmt           = "requires minimum role '%s', highest held role is '%s'"
	errDeniedRolesCannotPerformActionFmt  = "roles %v cannot perform action '%s' on resource '%s'"
)
