package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/group"
	apperrors "access-service/pkg/errors"
	"access-service/pkg/validator"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type GroupHandler struct {
	groupRepo   GroupRepository
	auditLogger AuditLogger
}

func NewGroupHandler(groupRepo GroupRepository, auditLogger AuditLogger) *GroupHandler {
	return &GroupHandler{
		groupRepo:   groupRepo,
		auditLogger: auditLogger,
	}
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	groups, err := h.groupRepo.ListByOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondInternal(c, err, msgListGroupsFail)
	}

	return c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) CreateGroup(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	var req CreateGroupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validator.GroupName(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Description(req.Description); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	g, err := h.groupRepo.Create(c.Request().Context(), group.CreateGroupInput{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgGroupExists)
		}
		return respondInternal(c, err, msgCreateGroupFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeGroup, &g.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"name": g.Name,
	})

	return c.JSON(http.StatusCreated, g)
}
