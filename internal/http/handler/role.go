package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/role"
	apperrors "access-service/pkg/errors"
	"access-service/pkg/validator"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type RoleHandler struct {
	roleRepo    RoleRepository
	auditLogger AuditLogger
}

func NewRoleHandler(roleRepo RoleRepository, auditLogger AuditLogger) *RoleHandler {
	return &RoleHandler{
		roleRepo:    roleRepo,
		auditLogger: auditLogger,
	}
}

type CreateRoleRequest struct {
	Name        string `json:"name"`
	RoleType    string `json:"role_type"`
	Description string `json:"description"`
}

func (h *RoleHandler) ListRoles(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	roles, err := h.roleRepo.ListByOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondInternal(c, err, msgListRolesFail)
	}

	return c.JSON(http.StatusOK, roles)
}

// CreateRole adds a custom project-scoped role. Organization-wide types are
// reserved for the seeded system roles.
func (h *RoleHandler) CreateRole(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	var req CreateRoleRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Name = strings.TrimSpace(req.Name)
	roleType := role.Type(strings.TrimSpace(req.RoleType))

	if err := validator.RoleName(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := roleType.ValidateCustom(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Description(req.Description); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	r, err := h.roleRepo.Create(c.Request().Context(), role.CreateRoleInput{
		OrganizationID: orgID,
		Name:           req.Name,
		Type:           roleType,
		Description:    req.Description,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgRoleExists)
		}
		h.auditLogger.LogError(c, audit.ResourceTypeRole, nil, audit.ActionCreate, err)
		return respondInternal(c, err, msgCreateRoleFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeRole, &r.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"name":      r.Name,
		"role_type": r.Type,
	})

	return c.JSON(http.StatusCreated, r)
}

func (h *RoleHandler) DeleteRole(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	roleID, ok := parseUUIDParam(c, paramID)
	if !ok {
		return respondError(c, http.StatusBadRequest, msgInvalidRoleID)
	}

	if err := h.roleRepo.Delete(c.Request().Context(), orgID, roleID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return respondError(c, http.StatusNotFound, msgRoleNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			return respondError(c, http.StatusForbidden, msgSystemRoleFixed)
		case errors.Is(err, apperrors.ErrConflict):
			return respondError(c, http.StatusConflict, msgRoleInUse)
		}
		return respondInternal(c, err, msgDeleteRoleFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeRole, &roleID, audit.ActionDelete, audit.StatusSuccess, nil)

	return c.NoContent(http.StatusNoContent)
}
