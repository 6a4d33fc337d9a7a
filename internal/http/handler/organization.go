package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/organization"
	apperrors "access-service/pkg/errors"
	"access-service/pkg/validator"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type OrganizationHandler struct {
	creator     OrganizationCreator
	orgRepo     OrganizationRepository
	userRepo    UserGetter
	auditLogger AuditLogger
}

func NewOrganizationHandler(creator OrganizationCreator, orgRepo OrganizationRepository, userRepo UserGetter, auditLogger AuditLogger) *OrganizationHandler {
	return &OrganizationHandler{
		creator:     creator,
		orgRepo:     orgRepo,
		userRepo:    userRepo,
		auditLogger: auditLogger,
	}
}

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
}

func (h *OrganizationHandler) ListOrganizations(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	orgs, err := h.orgRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondInternal(c, err, msgListOrganizationsFail)
	}

	return c.JSON(http.StatusOK, orgs)
}

// CreateOrganization creates the organization together with its system roles
// and a default project on which the caller becomes owner.
func (h *OrganizationHandler) CreateOrganization(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}

	var req CreateOrganizationRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validator.OrganizationName(req.Name); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	boot, err := h.creator.CreateOrganizationTransaction(c.Request().Context(), organization.CreateOrganizationInput{
		Name:      req.Name,
		CreatedBy: userID,
	})
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeOrganization, nil, audit.ActionCreate, err)
		return respondInternal(c, err, msgCreateOrganizationFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeOrganization, &boot.Organization.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"name":               boot.Organization.Name,
		"default_project_id": boot.DefaultProject.ID,
	})

	return c.JSON(http.StatusCreated, boot)
}

func (h *OrganizationHandler) ListMembers(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	members, err := h.orgRepo.ListMembers(c.Request().Context(), orgID)
	if err != nil {
		return respondInternal(c, err, msgListMembersFail)
	}

	return c.JSON(http.StatusOK, members)
}

// AddMember adds an existing user, looked up by email, to the organization.
func (h *OrganizationHandler) AddMember(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	var req AddMemberRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	u, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return respondInternal(c, err, msgAddMemberFail)
	}

	member, err := h.orgRepo.AddMember(ctx, organization.AddMemberInput{
		OrganizationID: orgID,
		UserID:         u.ID,
		AddedBy:        userID,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return respondError(c, http.StatusConflict, msgMemberAlreadyExists)
		}
		return respondInternal(c, err, msgAddMemberFail)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeMember, &u.ID, audit.ActionAdd, audit.StatusSuccess, nil)

	return c.JSON(http.StatusCreated, member)
}
