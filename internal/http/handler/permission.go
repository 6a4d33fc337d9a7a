package handler

import (
	"access-service/internal/auth"
	"access-service/internal/domain/role"
	"access-service/internal/rbac"
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RoleTypeLister interface {
	TypesForUser(ctx context.Context, orgID, userID uuid.UUID) ([]role.Type, error)
}

type PermissionHandler struct {
	checker *rbac.Checker
	roles   RoleTypeLister
}

func NewPermissionHandler(checker *rbac.Checker, roles RoleTypeLister) *PermissionHandler {
	return &PermissionHandler{
		checker: checker,
		roles:   roles,
	}
}

// MatrixResponse is the full permission matrix plus what the caller can do.
type MatrixResponse struct {
	Rows      []rbac.MatrixRow                `json:"rows"`
	HeldRoles []role.Type                     `json:"held_roles"`
	Effective map[rbac.Resource][]rbac.Action `json:"effective"`
}

func (h *PermissionHandler) GetMatrix(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	held, err := h.roles.TypesForUser(c.Request().Context(), orgID, userID)
	if err != nil {
		return respondInternal(c, err, msgLoadPermissionsFail)
	}

	roles := make([]rbac.Role, 0, len(held))
	for _, t := range held {
		roles = append(roles, rbac.Role(t))
	}

	effective := make(map[rbac.Resource][]rbac.Action)
	for _, res := range h.checker.Config().Resources {
		if actions := h.checker.Actions(roles, res); len(actions) > 0 {
			effective[res] = actions
		}
	}

	return c.JSON(http.StatusOK, MatrixResponse{
		Rows:      h.checker.Matrix(),
		HeldRoles: held,
		Effective: effective,
	})
}
