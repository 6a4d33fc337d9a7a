package auth

import (
	"access-service/internal/infra/cache"
	"access-service/internal/rbac"
	"access-service/internal/repository"
	apperrors "access-service/pkg/errors"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	checker *rbac.Checker
	members repository.MemberGetter
	roles   repository.RoleTypeLister
	cache   *cache.PermissionCache
}

func NewRBACMiddleware(checker *rbac.Checker, members repository.MemberGetter, roles repository.RoleTypeLister, permCache *cache.PermissionCache) *RBACMiddleware {
	return &RBACMiddleware{
		checker: checker,
		members: members,
		roles:   roles,
		cache:   permCache,
	}
}

// RequireOrgPermission allows the request when any role the caller holds in
// the :org_id organization grants action on resource. Non-members get 404.
func (m *RBACMiddleware) RequireOrgPermission(resource rbac.Resource, action rbac.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := GetUserID(c)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgUserNotAuthenticated)
			}

			orgID, err := uuid.Parse(c.Param(paramOrgID))
			if err != nil {
				return respondError(c, http.StatusBadRequest, msgInvalidOrganizationID)
			}

			key := cache.BuildCacheKey(userID.String(), orgID.String(), string(resource), string(action))
			allowed, found := m.cache.Get(key)
			if !found {
				allowed, err = m.authorize(c, orgID, userID, resource, action)
				if errors.Is(err, apperrors.ErrNotFound) {
					return respondError(c, http.StatusNotFound, msgOrganizationNotFound)
				}
				if err != nil {
					c.Logger().Errorf("rbac: %v", err)
					return respondError(c, http.StatusInternalServerError, msgPermissionCheckFailed)
				}
				m.cache.Set(key, allowed)
			}

			if !allowed {
				return respondError(c, http.StatusForbidden, msgInsufficientPermissions)
			}

			c.Set(ContextKeyOrgID, orgID)
			return next(c)
		}
	}
}

// authorize evaluates the caller's roles. A lookup error means no decision was
// reached and nothing may be cached.
func (m *RBACMiddleware) authorize(c echo.Context, orgID, userID uuid.UUID, resource rbac.Resource, action rbac.Action) (bool, error) {
	ctx := c.Request().Context()

	if _, err := m.members.GetMember(ctx, orgID, userID); err != nil {
		return false, fmt.Errorf("member lookup failed: %w", err)
	}

	types, err := m.roles.TypesForUser(ctx, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("role lookup failed: %w", err)
	}

	subject := &rbac.Subject{UserID: userID.String(), Roles: make([]rbac.Role, 0, len(types))}
	for _, t := range types {
		subject.Roles = append(subject.Roles, rbac.Role(t))
	}

	if err := m.checker.Authorize(subject, resource, action); err != nil {
		c.Logger().Warnf("rbac: authorization denied: %v", err)
		return false, nil
	}
	return true, nil
}

// Invalidate forgets cached decisions for userID in orgID.
func (m *RBACMiddleware) Invalidate(orgID, userID uuid.UUID) {
	m.cache.InvalidateSubject(userID.String(), orgID.String())
}

// InvalidateOrganization forgets every cached decision in orgID.
func (m *RBACMiddleware) InvalidateOrganization(orgID uuid.UUID) {
	m.cache.InvalidateOrganization(orgID.String())
}
