package postgres

import (
	"access-service/internal/domain/project"
	apperrors "access-service/pkg/errors"
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, organization_id, name, description, created_at, updated_at`

type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row pgx.Row, p *project.Project) error {
	return row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) Create(ctx context.Context, input project.CreateProjectInput) (*project.Project, error) {
	query := `
		INSERT INTO projects (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING ` + projectColumns

	p := &project.Project{}
	err := scanProject(r.db.Pool.QueryRow(ctx, query, input.OrganizationID, input.Name, input.Description), p)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errProjectNameExists)
		}
		return nil, errFailedCreateProject(err)
	}

	return p, nil
}

// GetByID scopes the lookup to orgID so ids from other organizations read as
// missing.
func (r *ProjectRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 AND id = $2`

	p := &project.Project{}
	if err := scanProject(r.db.Pool.QueryRow(ctx, query, orgID, id), p); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProjectNotFound)
		}
		return nil, errFailedGetProject(err)
	}

	return p, nil
}

// ListByOrganization returns projects oldest first. Callers rely on the
// order being stable.
func (r *ProjectRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE organization_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errFailedListProjects(err)
	}
	defer rows.Close()

	projects := []*project.Project{}
	for rows.Next() {
		p := &project.Project{}
		if err := scanProject(rows, p); err != nil {
			return nil, errFailedScanProject(err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return projects, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE organization_id = $1 AND id = $2`

	result, err := r.db.Pool.Exec(ctx, query, orgID, id)
	if err != nil {
		return errFailedDeleteProject(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProjectNotFound)
	}

	return nil
}
