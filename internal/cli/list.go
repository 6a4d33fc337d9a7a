package cli

import (
	"access-service/internal/domain/role"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	scopeOrganization = "organization"
	scopeProject      = "project"
)

func buildOrgsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List organizations you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			orgs, err := a.api().ListOrganizations(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list organizations: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, orgs)
			}
			if len(orgs) == 0 {
				fmt.Fprintln(a.opts.Stdout, "No organizations found.")
				return nil
			}
			rows := make([][]string, 0, len(orgs))
			for _, o := range orgs {
				rows = append(rows, []string{o.ID.String(), o.Name})
			}
			fmt.Fprintln(a.opts.Stdout, renderTable([]string{"ID", "NAME"}, rows))
			return nil
		},
	}
}

func buildProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the organization's projects in resolution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			projects, err := a.api().ListProjects(cmd.Context(), orgID)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(a.opts.Stdout, "No projects found.")
				return nil
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.ID.String(), p.Name, p.Description})
			}
			fmt.Fprintln(a.opts.Stdout, renderTable([]string{"ID", "NAME", "DESCRIPTION"}, rows))
			return nil
		},
	}
}

func buildRolesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the organization's roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			roles, err := a.api().ListRoles(cmd.Context(), orgID)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, roles)
			}
			rows := make([][]string, 0, len(roles))
			for _, r := range roles {
				rows = append(rows, []string{r.ID.String(), r.Name, string(r.Type), scopeOf(r)})
			}
			fmt.Fprintln(a.opts.Stdout, renderTable([]string{"ID", "NAME", "TYPE", "SCOPE"}, rows))
			return nil
		},
	}
}

func scopeOf(r role.Role) string {
	if r.Type.IsOrganizationWide() {
		return scopeOrganization
	}
	return scopeProject
}
