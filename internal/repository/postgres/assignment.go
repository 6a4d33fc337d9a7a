package postgres

import (
	"access-service/internal/domain/assignment"
	apperrors "access-service/pkg/errors"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const assignmentSelect = `
	SELECT a.id, a.organization_id, a.role_id, r.name, r.role_type,
	       a.entity_kind, a.entity_id, a.project_id, a.created_by, a.created_at
	FROM role_assignments a
	INNER JOIN roles r ON r.id = a.role_id
`

type AssignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func scanAssignment(row pgx.Row, a *assignment.RoleAssignment) error {
	err := row.Scan(
		&a.ID,
		&a.OrganizationID,
		&a.RoleID,
		&a.Role.Name,
		&a.Role.Type,
		&a.EntityKind,
		&a.EntityID,
		&a.ProjectID,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	a.Role.ID = a.RoleID
	return err
}

func (r *AssignmentRepository) Create(ctx context.Context, input assignment.CreateAssignmentInput) (*assignment.RoleAssignment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO role_assignments (organization_id, role_id, entity_kind, entity_id, project_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT a.id, a.organization_id, a.role_id, r.name, r.role_type,
		       a.entity_kind, a.entity_id, a.project_id, a.created_by, a.created_at
		FROM inserted a
		INNER JOIN roles r ON r.id = a.role_id
	`

	a := &assignment.RoleAssignment{}
	err := scanAssignment(r.db.Pool.QueryRow(ctx, query,
		input.OrganizationID,
		input.RoleID,
		input.EntityKind,
		input.EntityID,
		input.ProjectID,
		input.CreatedBy,
	), a)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errAssignmentExists)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.BadRequest(errAssignmentReference)
		}
		return nil, errFailedCreateAssignment(err)
	}

	return a, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*assignment.RoleAssignment, error) {
	query := assignmentSelect + `WHERE a.organization_id = $1 AND a.id = $2`

	a := &assignment.RoleAssignment{}
	if err := scanAssignment(r.db.Pool.QueryRow(ctx, query, orgID, id), a); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errAssignmentNotFound)
		}
		return nil, errFailedGetAssignment(err)
	}

	return a, nil
}

// List returns the entity's assignments, optionally narrowed to one project.
func (r *AssignmentRepository) List(ctx context.Context, filter assignment.ListFilter) ([]*assignment.RoleAssignment, error) {
	query := assignmentSelect + `WHERE a.organization_id = $1 AND a.entity_kind = $2 AND a.entity_id = $3`
	args := []interface{}{filter.OrganizationID, filter.EntityKind, filter.EntityID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND a.project_id = $%d", len(args))
	}

	query += " ORDER BY a.created_at ASC, a.id ASC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListAssignments(err)
	}
	defer rows.Close()

	assignments := []*assignment.RoleAssignment{}
	for rows.Next() {
		a := &assignment.RoleAssignment{}
		if err := scanAssignment(rows, a); err != nil {
			return nil, errFailedScanAssignment(err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return assignments, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM role_assignments WHERE organization_id = $1 AND id = $2`

	result, err := r.db.Pool.Exec(ctx, query, orgID, id)
	if err != nil {
		return errFailedDeleteAssignment(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errAssignmentNotFound)
	}

	return nil
}

// ListForReview returns every assignment in orgID with display names
// resolved, for access-review exports.
func (r *AssignmentRepository) ListForReview(ctx context.Context, orgID uuid.UUID) ([]assignment.ReviewEntry, error) {
	query := `
		SELECT a.id, a.entity_kind, a.entity_id,
		       COALESCE(NULLIF(u.name, ''), u.email, g.name, ''),
		       r.name, r.role_type, a.project_id, COALESCE(p.name, ''), a.created_at
		FROM role_assignments a
		INNER JOIN roles r ON r.id = a.role_id
		LEFT JOIN users u ON a.entity_kind = 'user' AND u.id = a.entity_id
		LEFT JOIN groups g ON a.entity_kind = 'group' AND g.id = a.entity_id
		LEFT JOIN projects p ON p.id = a.project_id
		WHERE a.organization_id = $1
		ORDER BY a.entity_kind, a.entity_id, a.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errFailedListReviewEntries(err)
	}
	defer rows.Close()

	entries := []assignment.ReviewEntry{}
	for rows.Next() {
		var e assignment.ReviewEntry
		if err := rows.Scan(
			&e.AssignmentID,
			&e.EntityKind,
			&e.EntityID,
			&e.EntityName,
			&e.RoleName,
			&e.RoleType,
			&e.ProjectID,
			&e.ProjectName,
			&e.CreatedAt,
		); err != nil {
			return nil, errFailedScanReviewEntry(err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return entries, nil
}
