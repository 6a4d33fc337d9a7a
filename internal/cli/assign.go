package cli

import (
	"access-service/internal/assigner"
	"access-service/internal/domain/assignment"
	"access-service/internal/resolver"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type entityRef struct {
	kind assignment.EntityKind
	id   uuid.UUID
}

func parseEntityArgs(args []string) (entityRef, error) {
	kind, err := assignment.ParseEntityKind(strings.ToLower(args[0]))
	if err != nil {
		return entityRef{}, err
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return entityRef{}, fmt.Errorf("invalid %s id %q: %w", kind, args[1], err)
	}
	return entityRef{kind: kind, id: id}, nil
}

// parseOptionalID treats an empty flag as unset.
func parseOptionalID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s id %q: %w", name, raw, err)
	}
	return &id, nil
}

func buildAssignmentsCmd(a *app) *cobra.Command {
	var projectFlag string
	cmd := &cobra.Command{
		Use:   "assignments <user|group> <id>",
		Short: "List the role assignments a user or group holds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			ref, err := parseEntityArgs(args)
			if err != nil {
				return err
			}
			projectID, err := parseOptionalID(projectFlag, "project")
			if err != nil {
				return err
			}

			var held []assignment.RoleAssignment
			if projectID != nil {
				held, err = a.api().ListAssignments(cmd.Context(), orgID, ref.kind, ref.id, projectID)
			} else {
				held, err = a.assigner().Current(cmd.Context(), orgID, ref.kind, ref.id)
			}
			if err != nil {
				return fmt.Errorf("failed to list assignments: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, held)
			}
			renderAssignments(a.opts.Stdout, held)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectFlag, "project", "", "only assignments recorded on this project")
	return cmd
}

func renderAssignments(w io.Writer, held []assignment.RoleAssignment) {
	if len(held) == 0 {
		fmt.Fprintln(w, "No role assignments.")
		return
	}
	rows := make([][]string, 0, len(held))
	for _, h := range held {
		project := "-"
		if h.ProjectID != nil {
			project = h.ProjectID.String()
		}
		rows = append(rows, []string{h.ID.String(), h.Role.Name, string(h.Role.Type), project})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "ROLE", "TYPE", "PROJECT"}, rows))
}

type assignRunner struct {
	app         *app
	roleFlag    string
	projectFlag string
	dryRun      bool
}

func buildAssignCmd(a *app) *cobra.Command {
	r := &assignRunner{app: a}
	cmd := &cobra.Command{
		Use:   "assign <user|group> <id>",
		Short: "Assign a role, choosing the target project automatically",
		Long: `Assign a role to a user or group.

Project-scoped roles need --project. If the entity already holds a role on
that project, the first project without one is used instead. Organization-wide
roles (owner, admin) may omit --project.`,
		Args: cobra.ExactArgs(2),
		Example: `  # Give a user the QA Lead role on a project
  accessctl assign user 7d1c... --role 41aa... --project 09b2...

  # Show where an admin role would land without writing
  accessctl assign group 5e0f... --role 88c1... --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseEntityArgs(args)
			if err != nil {
				return err
			}
			return r.Run(cmd, ref)
		},
	}
	cmd.Flags().StringVar(&r.roleFlag, "role", "", "role ID")
	cmd.Flags().StringVar(&r.projectFlag, "project", "", "project ID")
	cmd.Flags().BoolVar(&r.dryRun, "dry-run", false, "resolve the target project without creating the assignment")
	return cmd
}

func (r *assignRunner) Run(cmd *cobra.Command, ref entityRef) error {
	orgID, err := r.app.requireOrg()
	if err != nil {
		return err
	}
	roleID, err := parseOptionalID(r.roleFlag, "role")
	if err != nil {
		return err
	}
	projectID, err := parseOptionalID(r.projectFlag, "project")
	if err != nil {
		return err
	}

	in := assigner.AssignInput{
		OrgID:     orgID,
		Kind:      ref.kind,
		EntityID:  ref.id,
		ProjectID: projectID,
		DryRun:    r.dryRun,
	}
	if roleID != nil {
		in.RoleID = *roleID
	}

	out, err := r.app.assigner().Assign(cmd.Context(), in)
	if err != nil {
		var rej *resolver.RejectionError
		if errors.As(err, &rej) {
			renderRejection(r.app.opts.Stderr, err)
		}
		return err
	}

	if r.app.output == outputJSON {
		return writeJSON(r.app.opts.Stdout, out)
	}

	w := r.app.opts.Stdout
	renderAdvisories(w, out.Decision.Advisories)
	if r.dryRun {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("would assign to"), out.Decision.Target.Label())
		return nil
	}
	fmt.Fprintln(w, successStyle.Render("Assigned to "+out.Decision.Target.Label()))
	renderAssignments(w, out.Refreshed)
	return nil
}

func buildUnassignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <assignment-id>",
		Short: "Delete a role assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid assignment id %q: %w", args[0], err)
			}
			if err := a.assigner().Unassign(cmd.Context(), orgID, id); err != nil {
				return err
			}
			fmt.Fprintln(a.opts.Stdout, successStyle.Render("Removed assignment "+id.String()))
			return nil
		},
	}
}

func buildPreviewCmd(a *app) *cobra.Command {
	var roleFlag, projectFlag string
	cmd := &cobra.Command{
		Use:   "preview <user|group> <id>",
		Short: "Ask the server how an assignment would resolve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := a.requireOrg()
			if err != nil {
				return err
			}
			ref, err := parseEntityArgs(args)
			if err != nil {
				return err
			}
			roleID, err := parseOptionalID(roleFlag, "role")
			if err != nil {
				return err
			}
			projectID, err := parseOptionalID(projectFlag, "project")
			if err != nil {
				return err
			}

			// Zero ids tell the server the field is unset.
			form := resolver.Form{Kind: ref.kind, EntityID: ref.id}
			if roleID != nil {
				form.RoleID = *roleID
			}
			if projectID != nil {
				form.ProjectID = *projectID
			}

			view, err := a.api().Preview(cmd.Context(), orgID, form)
			if err != nil {
				return fmt.Errorf("failed to preview assignment: %w", err)
			}

			if a.output == outputJSON {
				return writeJSON(a.opts.Stdout, view)
			}
			renderFormView(a.opts.Stdout, view)
			return nil
		},
	}
	cmd.Flags().StringVar(&roleFlag, "role", "", "role ID")
	cmd.Flags().StringVar(&projectFlag, "project", "", "project ID")
	return cmd
}

func renderFormView(w io.Writer, view *resolver.FormView) {
	if view.Role != nil {
		scope := scopeProject
		if view.OrganizationWide {
			scope = scopeOrganization
		}
		fmt.Fprintf(w, "%s %s (%s)\n", titleStyle.Render("role"), view.Role.Name, scope)
	}
	if view.Rejection != nil {
		renderRejection(w, view.Err())
		return
	}
	if view.Decision != nil {
		renderAdvisories(w, view.Decision.Advisories)
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("target"), view.Decision.Target.Label())
	}
}
