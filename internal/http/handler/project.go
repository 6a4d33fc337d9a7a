package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/project"
	apperrors "access-service/pkg/errors"
	"access-service/pkg/validator"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ProjectHandler struct {
	projectRepo ProjectRepository
	permissions PermissionInvalidator
	auditLogger AuditLogger
}

func NewProjectHandler(projectRepo ProjectRepository, permissions PermissionInvalidator, auditLogger AuditLogger) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		permissions: permissions,
		auditLogger: auditLogger,
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProjects returns the organization's projects oldest first. Assignment
// resolution depends on this order.
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	projects, err := h.projectRepo.ListByOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondInternal(c, err, msgListProjectsFail)
	}

	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	var req CreateProjectRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validator.ProjectName(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Description(req.Description); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	proj, err := h.projectRepo.Create(c.Request().Context(), project.CreateProjectInput{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgProjectExists)
		}
		h.auditLogger.LogError(c, audit.ResourceTypeProject, nil, audit.ActionCreate, err)
		return respondInternal(c, err, msgCreateProjectFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProject, &proj.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"name": proj.Name,
	})

	return c.JSON(http.StatusCreated, proj)
}

// DeleteProject removes the project and, through the schema, every role
// assignment recorded against it.
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	projectID, ok := parseUUIDParam(c, paramID)
	if !ok {
		return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
	}

	if err := h.projectRepo.Delete(c.Request().Context(), orgID, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgProjectNotFound)
		}
		h.auditLogger.LogError(c, audit.ResourceTypeProject, &projectID, audit.ActionDelete, err)
		return respondInternal(c, err, msgDeleteProjectFail)
	}

	h.permissions.InvalidateOrganization(orgID)
	h.auditLogger.LogFromContext(c, audit.ResourceTypeProject, &projectID, audit.ActionDelete, audit.StatusSuccess, nil)

	return c.NoContent(http.StatusNoContent)
}
