package postgres

import (
	"access-service/internal/domain/organization"
	apperrors "access-service/pkg/errors"
	"context"

	"github.com/google/uuid"
)

type OrganizationRepository struct {
	db *DB
}

func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM organizations WHERE id = $1
	`

	o := &organization.Organization{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errOrganizationNotFound)
		}
		return nil, errFailedGetOrganization(err)
	}

	return o, nil
}

// ListByUser returns the organizations userID is a member of.
func (r *OrganizationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*organization.Organization, error) {
	query := `
		SELECT o.id, o.name, o.created_by, o.created_at, o.updated_at
		FROM organizations o
		INNER JOIN organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errFailedListOrganizations(err)
	}
	defer rows.Close()

	orgs := []*organization.Organization{}
	for rows.Next() {
		o := &organization.Organization{}
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, errFailedScanOrganization(err)
		}
		orgs = append(orgs, o)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return orgs, nil
}

func (r *OrganizationRepository) AddMember(ctx context.Context, input organization.AddMemberInput) (*organization.Member, error) {
	query := `
		WITH inserted AS (
			INSERT INTO organization_members (organization_id, user_id, added_by)
			VALUES ($1, $2, $3)
			RETURNING organization_id, user_id, added_by, added_at
		)
		SELECT i.organization_id, i.user_id, u.email, u.name, i.added_by, i.added_at
		FROM inserted i
		INNER JOIN users u ON u.id = i.user_id
	`

	m := &organization.Member{}
	err := r.db.Pool.QueryRow(ctx, query, input.OrganizationID, input.UserID, input.AddedBy).Scan(
		&m.OrganizationID, &m.UserID, &m.Email, &m.Name, &m.AddedBy, &m.AddedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errMemberExists)
		}
		return nil, errFailedAddMember(err)
	}

	return m, nil
}

func (r *OrganizationRepository) GetMember(ctx context.Context, orgID, userID uuid.UUID) (*organization.Member, error) {
	query := `
		SELECT m.organization_id, m.user_id, u.email, u.name, m.added_by, m.added_at
		FROM organization_members m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1 AND m.user_id = $2
	`

	m := &organization.Member{}
	err := r.db.Pool.QueryRow(ctx, query, orgID, userID).Scan(
		&m.OrganizationID, &m.UserID, &m.Email, &m.Name, &m.AddedBy, &m.AddedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errMemberNotFound)
		}
		return nil, errFailedGetMember(err)
	}

	return m, nil
}

func (r *OrganizationRepository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]*organization.Member, error) {
	query := `
		SELECT m.organization_id, m.user_id, u.email, u.name, m.added_by, m.added_at
		FROM organization_members m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY m.added_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errFailedListMembers(err)
	}
	defer rows.Close()

	members := []*organization.Member{}
	for rows.Next() {
		m := &organization.Member{}
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.Email, &m.Name, &m.AddedBy, &m.AddedAt); err != nil {
			return nil, errFailedScanMember(err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRows(err)
	}

	return members, nil
}
