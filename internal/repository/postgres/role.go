package postgres

import (
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/role"
	apperrors "access-service/pkg/errors"
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roleColumns = `id, organization_id, name, role_type, description, is_system, created_at`

type RoleRepository struct {
	db *DB
}

func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func scanRole(row pgx.Row, r *role.Role) error {
	return row.Scan(&r.ID, &r.OrganizationID, &r.Name, &r.Type, &r.Description, &r.IsSystem, &r.CreatedAt)
}

func (r *RoleRepository) Create(ctx context.Context, input role.CreateRoleInput) (*role.Role, error) {
	query := `
		INSERT INTO roles (organization_id, name, role_type, description, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + roleColumns

	rl := &role.Role{}
	err := scanRole(r.db.Pool.QueryRow(ctx, query, input.OrganizationID, input.Name, input.Type, input.Description, input.IsSystem), rl)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errRoleNameExists)
		}
		return nil, errFailedCreateRole(err)
	}

	return rl, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*role.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE organization_id = $1 AND id = $2`

	rl := &role.Role{}
	if err := scanRole(r.db.Pool.QueryRow(ctx, query, orgID, id), rl); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errRoleNotFound)
		}
		return nil, errFailedGetRole(err)
	}

	return rl, nil
}

// ListByOrganization returns system roles first, then custom roles by name.
func (r *RoleRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*role.Role, error) {
	query := `
		SELECT ` + roleColumns + `
		FROM roles
		WHERE organization_id = $1
		ORDER BY is_system DESC, created_at ASC, name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errFailedListRoles(err)
	}
	defer rows.Close()

	roles := []*role.Role{}
	for rows.Next() {
		rl := &role.Role{}
		if err := scanRole(rows, rl); err != nil {
			return nil, errFailedScanRole(err)
		}
		roles = append(roles, rl)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return roles, nil
}

// Delete removes a custom role. Roles that are still assigned are refused.
func (r *RoleRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `
		DELETE FROM roles
		WHERE organization_id = $1 AND id = $2 AND is_system = FALSE
		AND NOT EXISTS (SELECT 1 FROM role_assignments WHERE role_id = $2)
	`

	result, err := r.db.Pool.Exec(ctx, query, orgID, id)
	if err != nil {
		return errFailedDeleteRole(err)
	}

	if result.RowsAffected() == 0 {
		rl, err := r.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if rl.IsSystem {
			return apperrors.Forbidden(errSystemRoleImmutable)
		}
		return apperrors.Conflict(errRoleInUse)
	}

	return nil
}

// TypesForUser returns the distinct role types userID holds in orgID through
// direct user assignments.
func (r *RoleRepository) TypesForUser(ctx context.Context, orgID, userID uuid.UUID) ([]role.Type, error) {
	query := `
		SELECT DISTINCT r.role_type
		FROM role_assignments a
		INNER JOIN roles r ON r.id = a.role_id
		WHERE a.organization_id = $1 AND a.entity_kind = $2 AND a.entity_id = $3
		ORDER BY r.role_type
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID, assignment.EntityKindUser, userID)
	if err != nil {
		return nil, errFailedListRoleTypes(err)
	}
	defer rows.Close()

	types := []role.Type{}
	for rows.Next() {
		var t role.Type
		if err := rows.Scan(&t); err != nil {
			return nil, errFailedListRoleTypes(err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return types, nil
}
