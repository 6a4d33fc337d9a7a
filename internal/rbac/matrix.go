package rbac

import "sort"

// BuildMatrix renders cfg as rows ordered by descending role level, then by
// resource in config order. Resources a role has no action on are omitted.
func BuildMatrix(cfg Config) []MatrixRow {
	roles := make([]RoleDefinition, len(cfg.Roles))
	copy(roles, cfg.Roles)
	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Level > roles[j].Level
	})

	actionOrder := make(map[Action]int, len(cfg.Actions))
	for i, a := range cfg.Actions {
		actionOrder[a] = i
	}

	var rows []MatrixRow
	for _, rd := range roles {
		caps := cfg.Capabilities[rd.Name]
		for _, res := range cfg.Resources {
			actions := caps[res]
			if len(actions) == 0 {
				continue
			}
			ordered := make([]Action, len(actions))
			copy(ordered, actions)
			sort.SliceStable(ordered, func(i, j int) bool {
				return actionOrder[ordered[i]] < actionOrder[ordered[j]]
			})
			rows = append(rows, MatrixRow{
				Role:     rd.Name,
				Level:    rd.Level,
				Resource: res,
				Actions:  ordered,
			})
		}
	}
	return rows
}

// Matrix renders the checker's own config
func (rc *Checker) Matrix() []MatrixRow {
	return BuildMatrix(rc.config)
}
