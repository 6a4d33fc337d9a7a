package auth

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyOrgID  = "organization_id"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	paramOrgID = "org_id"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgUserNotAuthenticated    = "user not authenticated"
	msgInvalidOrganizationID   = "invalid organization id"
	msgOrganizationNotFound    = "organization not found"
	msgPermissionCheckFailed   = "failed to check permissions"
	msgInsufficientPermissions = "insufficient permissions"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgInvalidOrgIDCtx         = "invalid organization ID in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
