package cli

import (
	"access-service/internal/rbac"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func buildMatrixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Show the permission matrix and what you can do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			m, err := a.api().PermissionMatrix(cmd.Context(), orgID)
			if err != nil {
				return fmt.Errorf("failed to load permission matrix: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, m)
			}

			w := a.opts.Stdout
			rows := make([][]string, 0, len(m.Rows))
			for _, r := range m.Rows {
				rows = append(rows, []string{string(r.Role), strconv.Itoa(r.Level), string(r.Resource), joinActions(r.Actions)})
			}
			fmt.Fprintln(w, renderTable([]string{"ROLE", "LEVEL", "RESOURCE", "ACTIONS"}, rows))

			held := make([]string, 0, len(m.HeldRoles))
			for _, t := range m.HeldRoles {
				held = append(held, string(t))
			}
			fmt.Fprintf(w, "%s %s\n", titleStyle.Render("your roles:"), strings.Join(held, ", "))

			resources := make([]string, 0, len(m.Effective))
			for res := range m.Effective {
				resources = append(resources, string(res))
			}
			sort.Strings(resources)
			for _, res := range resources {
				fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render(res+":"), joinActions(m.Effective[rbac.Resource(res)]))
			}
			return nil
		},
	}
}

func joinActions(actions []rbac.Action) string {
	parts := make([]string, 0, len(actions))
	for _, act := range actions {
		parts = append(parts, string(act))
	}
	return strings.Join(parts, ", ")
}
