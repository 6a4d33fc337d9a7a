package rbac

import (
	"fmt"
	"sort"
)

// Checker provides authorization checking based on a validated Config
type Checker struct {
	config       Config
	roleIndex    map[Role]int
	aliases      map[Role]Role
	capabilities map[Role]map[Resource]map[Action]bool
	actionOrder  map[Action]int
}

// New creates a Checker from a validated Config
func New(cfg Config) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := &Checker{config: cfg}
	rc.buildLookups()
	return rc, nil
}

// MustNew creates a Checker and panics on invalid config
func MustNew(cfg Config) *Checker {
	rc, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return rc
}

func (rc *Checker) buildLookups() {
	cfg := rc.config

	rc.roleIndex = make(map[Role]int, len(cfg.Roles))
	for _, rd := range cfg.Roles {
		rc.roleIndex[rd.Name] = rd.Level
	}

	rc.aliases = make(map[Role]Role, len(cfg.Aliases))
	for _, a := range cfg.Aliases {
		rc.aliases[a.From] = a.To
	}

	rc.capabilities = make(map[Role]map[Resource]map[Action]bool, len(cfg.Capabilities))
	for role, resources := range cfg.Capabilities {
		rc.capabilities[role] = make(map[Resource]map[Action]bool, len(resources))
		for res, actions := range resources {
			rc.capabilities[role][res] = make(map[Action]bool, len(actions))
			for _, act := range actions {
				rc.capabilities[role][res][act] = true
			}
		}
	}

	rc.actionOrder = make(map[Action]int, len(cfg.Actions))
	for i, act := range cfg.Actions {
		rc.actionOrder[act] = i
	}
}

// Config returns the configuration the checker was built from
func (rc *Checker) Config() Config {
	return rc.config
}

// Canonical resolves aliases, returning the role unchanged when it has none
func (rc *Checker) Canonical(role Role) Role {
	if to, ok := rc.aliases[role]; ok {
		return to
	}
	return role
}

// Authorize allows the action when any role the subject holds allows it
func (rc *Checker) Authorize(subject *Subject, resource Resource, action Action) error {
	if subject == nil {
		return fmt.Errorf("%w: %w", ErrDenied, ErrNilSubject)
	}
	if len(subject.Roles) == 0 {
		return fmt.Errorf("%w: %s", ErrDenied, errDeniedNoRoles)
	}

	for _, role := range subject.Roles {
		if rc.canRolePerformAction(rc.Canonical(role), resource, action) {
			return nil
		}
	}
	return fmt.Errorf("%w: "+errDeniedRolesCannotPerformActionFmt, ErrDenied, subject.Roles, action, resource)
}

// IsAuthorized returns a boolean version of Authorize
func (rc *Checker) IsAuthorized(subject *Subject, resource Resource, action Action) bool {
	return rc.Authorize(subject, resource, action) == nil
}

// RequireRole checks if the subject's highest role is at least minRole
func (rc *Checker) RequireRole(subject *Subject, minRole Role) error {
	if subject == nil {
		return fmt.Errorf("%w: %w", ErrDenied, ErrNilSubject)
	}
	if len(subject.Roles) == 0 {
		return fmt.Errorf("%w: %s", ErrDenied, errDeniedNoRoles)
	}

	highest, _ := rc.HighestRole(subject.Roles)
	if !rc.IsRoleElevated(highest, minRole) {
		return fmt.Errorf("%w: "+errDeniedMinRoleRequiredFmt, ErrDenied, minRole, highest)
	}
	return nil
}

func (rc *Checker) canRolePerformAction(role Role, resource Resource, action Action) bool {
	resources, ok := rc.capabilities[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	return actions[action]
}

// IsRoleElevated checks if role1 has equal or higher privilege than role2
func (rc *Checker) IsRoleElevated(role1, role2 Role) bool {
	level1, exists1 := rc.roleIndex[rc.Canonical(role1)]
	level2, exists2 := rc.roleIndex[rc.Canonical(role2)]
	if !exists1 || !exists2 {
		return false
	}
	return level1 >= level2
}

// HighestRole returns the known role with the highest level. Unknown roles
// are ignored; ok is false when none is known.
func (rc *Checker) HighestRole(roles []Role) (Role, bool) {
	var (
		best  Role
		level int
		found bool
	)
	for _, r := range roles {
		c := rc.Canonical(r)
		l, ok := rc.roleIndex[c]
		if !ok {
			continue
		}
		if !found || l > level {
			best, level, found = c, l, true
		}
	}
	return best, found
}

// ValidateRole validates a role string against configured roles and aliases
func (rc *Checker) ValidateRole(role string) (Role, error) {
	r := rc.Canonical(Role(role))
	if _, ok := rc.roleIndex[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRole, role)
}

// Actions returns the union of actions the roles allow on resource, in
// config order.
func (rc *Checker) Actions(roles []Role, resource Resource) []Action {
	seen := make(map[Action]bool)
	for _, r := range roles {
		for act := range rc.capabilities[rc.Canonical(r)][resource] {
			seen[act] = true
		}
	}

	out := make([]Action, 0, len(seen))
	for act := range seen {
		out = append(out, act)
	}
	sort.Slice(out, func(i, j int) bool {
		return rc.actionOrder[out[i]] < rc.actionOrder[out[j]]
	})
	return out
}
