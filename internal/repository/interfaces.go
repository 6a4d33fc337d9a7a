package repository

import (
	"access-service/internal/domain/organization"
	"access-service/internal/domain/role"
	"context"

	"github.com/google/uuid"
)

// Repository interfaces used by auth and middleware packages
// These are provider-side interfaces that concrete implementations must satisfy

type RoleTypeLister interface {
	TypesForUser(ctx context.Context, orgID, userID uuid.UUID) ([]role.Type, error)
}

type MemberGetter interface {
	GetMember(ctx context.Context, orgID, userID uuid.UUID) (*organization.Member, error)
}
