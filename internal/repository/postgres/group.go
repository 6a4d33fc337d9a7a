package postgres

import (
	"access-service/internal/domain/group"
	apperrors "access-service/pkg/errors"
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const groupColumns = `id, organization_id, name, description, created_at`

type GroupRepository struct {
	db *DB
}

func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func scanGroup(row pgx.Row, g *group.Group) error {
	return row.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.CreatedAt)
}

func (r *GroupRepository) Create(ctx context.Context, input group.CreateGroupInput) (*group.Group, error) {
	query := `
		INSERT INTO groups (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING ` + groupColumns

	g := &group.Group{}
	if err := scanGroup(r.db.Pool.QueryRow(ctx, query, input.OrganizationID, input.Name, input.Description), g); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errGroupNameExists)
		}
		return nil, errFailedCreateGroup(err)
	}

	return g, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*group.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE organization_id = $1 AND id = $2`

	g := &group.Group{}
	if err := scanGroup(r.db.Pool.QueryRow(ctx, query, orgID, id), g); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errGroupNotFound)
		}
		return nil, errFailedGetGroup(err)
	}

	return g, nil
}

func (r *GroupRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*group.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE organization_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errFailedListGroups(err)
	}
	defer rows.Close()

	groups := []*group.Group{}
	for rows.Next() {
		g := &group.Group{}
		if err := scanGroup(rows, g); err != nil {
			return nil, errFailedScanGroup(err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return groups, nil
}
