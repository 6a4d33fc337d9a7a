package postgres

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/organization"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"context"
)

// CreateOrganizationTransaction creates the organization, makes the creator a
// member, seeds the system roles and a default project, and assigns the
// creator the owner role on it.
func (db *DB) CreateOrganizationTransaction(ctx context.Context, input organization.CreateOrganizationInput) (*organization.Bootstrap, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	org := &organization.Organization{}
	orgQuery := `
		INSERT INTO organizations (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, created_by, created_at, updated_at
	`
	err = tx.QueryRow(ctx, orgQuery, input.Name, input.CreatedBy).Scan(
		&org.ID,
		&org.Name,
		&org.CreatedBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, errFailedCreateOrganization(err)
	}

	memberQuery := `
		INSERT INTO organization_members (organization_id, user_id, added_by)
		VALUES ($1, $2, $2)
	`
	if _, err := tx.Exec(ctx, memberQuery, org.ID, input.CreatedBy); err != nil {
		return nil, errFailedAddMember(err)
	}

	roleQuery := `
		INSERT INTO roles (organization_id, name, role_type, is_system)
		VALUES ($1, $2, $3, TRUE)
		RETURNING ` + roleColumns

	var (
		roles []role.Role
		owner role.Role
	)
	for _, t := range role.BuiltinTypes() {
		name := role.DisplayName(t)
		var rl role.Role
		if err := scanRole(tx.QueryRow(ctx, roleQuery, org.ID, name, t), &rl); err != nil {
			return nil, errFailedSeedRole(name, err)
		}
		if t == role.TypeOwner {
			owner = rl
		}
		roles = append(roles, rl)
	}

	p := &project.Project{}
	projectQuery := `
		INSERT INTO projects (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING ` + projectColumns
	if err := scanProject(tx.QueryRow(ctx, projectQuery, org.ID, defaultProjectName, defaultProjectDescription), p); err != nil {
		return nil, errFailedCreateDefaultProject(err)
	}

	a := &assignment.RoleAssignment{Role: owner.Summary()}
	assignQuery := `
		INSERT INTO role_assignments (organization_id, role_id, entity_kind, entity_id, project_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $4)
		RETURNING id, organization_id, role_id, entity_kind, entity_id, project_id, created_by, created_at
	`
	err = tx.QueryRow(ctx, assignQuery, org.ID, owner.ID, assignment.EntityKindUser, input.CreatedBy, p.ID).Scan(
		&a.ID,
		&a.OrganizationID,
		&a.RoleID,
		&a.EntityKind,
		&a.EntityID,
		&a.ProjectID,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, errFailedAssignOwner(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return &organization.Bootstrap{
		Organization:   org,
		DefaultProject: p,
		Roles:          roles,
		Owner:          a,
	}, nil
}
