package auth

import (
	apperrors "access-service/pkg/errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

func GetUserID(c echo.Context) (uuid.UUID, error) {
	return uuidFromContext(c, ContextKeyUserID, msgUserNotAuthenticated, msgInvalidUserIDCtx)
}

// GetOrgID returns the organization resolved by RequireOrgPermission.
func GetOrgID(c echo.Context) (uuid.UUID, error) {
	return uuidFromContext(c, ContextKeyOrgID, msgOrganizationNotFound, msgInvalidOrgIDCtx)
}

func GetEmail(c echo.Context) string {
	email, _ := c.Get(ContextKeyEmail).(string)
	return email
}

func uuidFromContext(c echo.Context, key, missingMsg, invalidMsg string) (uuid.UUID, error) {
	raw := c.Get(key)
	if raw == nil {
		return uuid.Nil, apperrors.Unauthorized(missingMsg)
	}

	id, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.InternalServer(invalidMsg, nil)
	}

	return id, nil
}
