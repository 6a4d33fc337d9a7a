package handler

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/domain/assignment"
	"access-service/internal/domain/project"
	"access-service/internal/domain/role"
	"access-service/internal/policy"
	"access-service/internal/resolver"
	apperrors "access-service/pkg/errors"
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssignmentHandler struct {
	assignmentRepo AssignmentRepository
	roleRepo       RoleRepository
	projectRepo    ProjectRepository
	groupRepo      GroupRepository
	members        MemberGetter
	grants         GrantPolicy
	permissions    PermissionInvalidator
	auditLogger    AuditLogger
}

type AssignmentDependencies struct {
	Assignments AssignmentRepository
	Roles       RoleRepository
	Projects    ProjectRepository
	Groups      GroupRepository
	Members     MemberGetter
	Grants      GrantPolicy
	Permissions PermissionInvalidator
	AuditLogger AuditLogger
}

func NewAssignmentHandler(deps AssignmentDependencies) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentRepo: deps.Assignments,
		roleRepo:       deps.Roles,
		projectRepo:    deps.Projects,
		groupRepo:      deps.Groups,
		members:        deps.Members,
		grants:         deps.Grants,
		permissions:    deps.Permissions,
		auditLogger:    deps.AuditLogger,
	}
}

type CreateAssignmentRequest struct {
	EntityID  uuid.UUID  `json:"entity_id"`
	RoleID    uuid.UUID  `json:"role_id"`
	ProjectID *uuid.UUID `json:"project_id"`
}

// ListForEntity lists the assignments held by one user or group, optionally
// narrowed to a project with ?project_id=.
func (h *AssignmentHandler) ListForEntity(kind assignment.EntityKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		orgID, err := auth.GetOrgID(c)
		if err != nil {
			return respondError(c, http.StatusNotFound, err.Error())
		}

		entityID, ok := parseUUIDParam(c, paramID)
		if !ok {
			return respondError(c, http.StatusBadRequest, msgInvalidEntityID)
		}

		projectID, err := parseOptionalUUID(c.QueryParam(queryProjectID))
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidProjectID)
		}

		assignments, err := h.assignmentRepo.List(c.Request().Context(), assignment.ListFilter{
			OrganizationID: orgID,
			EntityKind:     kind,
			EntityID:       entityID,
			ProjectID:      projectID,
		})
		if err != nil {
			return respondInternal(c, err, msgListAssignmentsFail)
		}

		return c.JSON(http.StatusOK, assignments)
	}
}

// CreateAssignment records a role for one user or group against the project
// given in the body. Organization-wide roles still need that project.
func (h *AssignmentHandler) CreateAssignment(kind assignment.EntityKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		callerID, err := auth.GetUserID(c)
		if err != nil {
			return respondError(c, http.StatusUnauthorized, err.Error())
		}
		orgID, err := auth.GetOrgID(c)
		if err != nil {
			return respondError(c, http.StatusNotFound, err.Error())
		}

		var req CreateAssignmentRequest
		if err := bindStrictJSON(c, &req); err != nil {
			return handleHTTPError(c, err)
		}
		if req.EntityID == uuid.Nil {
			return respondError(c, http.StatusBadRequest, msgInvalidEntityID)
		}
		if req.RoleID == uuid.Nil {
			return respondError(c, http.StatusBadRequest, msgInvalidRoleID)
		}
		if req.ProjectID == nil || *req.ProjectID == uuid.Nil {
			return respondError(c, http.StatusBadRequest, msgProjectRequired)
		}

		ctx := c.Request().Context()

		r, err := h.roleRepo.GetByID(ctx, orgID, req.RoleID)
		if err != nil {
			return h.respondLookupError(c, err, msgRoleNotFound)
		}
		if _, err := h.projectRepo.GetByID(ctx, orgID, *req.ProjectID); err != nil {
			return h.respondLookupError(c, err, msgProjectNotFound)
		}
		if notFound, err := h.checkEntity(ctx, orgID, kind, req.EntityID); err != nil {
			return h.respondLookupError(c, err, notFound)
		}

		decision, err := h.evaluateGrant(c, orgID, callerID, kind, r, req)
		if err != nil {
			return respondInternal(c, err, msgPolicyEvaluationFail)
		}
		if !decision.Allow {
			h.auditLogger.LogFromContext(c, audit.ResourceTypeRoleAssignment, nil, audit.ActionCreate, audit.StatusDenied, map[string]any{
				"role_id":   r.ID,
				"entity_id": req.EntityID,
				"reasons":   decision.Reasons,
			})
			return c.JSON(http.StatusForbidden, map[string]any{
				jsonKeyError:   msgAssignmentDenied,
				jsonKeyReasons: decision.Reasons,
			})
		}

		a, err := h.assignmentRepo.Create(ctx, assignment.CreateAssignmentInput{
			OrganizationID: orgID,
			RoleID:         r.ID,
			EntityKind:     kind,
			EntityID:       req.EntityID,
			ProjectID:      *req.ProjectID,
			CreatedBy:      callerID,
		})
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrConflict):
				return respondError(c, http.StatusConflict, msgAssignmentExists)
			case errors.Is(err, apperrors.ErrBadRequest):
				return respondError(c, http.StatusBadRequest, err.Error())
			}
			h.auditLogger.LogError(c, audit.ResourceTypeRoleAssignment, nil, audit.ActionCreate, err)
			return respondInternal(c, err, msgCreateAssignmentFail)
		}

		if kind == assignment.EntityKindUser {
			h.permissions.Invalidate(orgID, req.EntityID)
		}
		h.auditLogger.LogFromContext(c, audit.ResourceTypeRoleAssignment, &a.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
			"role_id":     a.RoleID,
			"role_type":   a.Role.Type,
			"entity_kind": a.EntityKind,
			"entity_id":   a.EntityID,
			"project_id":  a.ProjectID,
		})

		return c.JSON(http.StatusCreated, a)
	}
}

func (h *AssignmentHandler) DeleteAssignment(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	assignmentID, ok := parseUUIDParam(c, paramAssignmentID)
	if !ok {
		return respondError(c, http.StatusBadRequest, msgInvalidAssignmentID)
	}

	ctx := c.Request().Context()
	a, err := h.assignmentRepo.GetByID(ctx, orgID, assignmentID)
	if err != nil {
		return h.respondLookupError(c, err, msgAssignmentNotFound)
	}

	if err := h.assignmentRepo.Delete(ctx, orgID, assignmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgAssignmentNotFound)
		}
		h.auditLogger.LogError(c, audit.ResourceTypeRoleAssignment, &assignmentID, audit.ActionDelete, err)
		return respondInternal(c, err, msgDeleteAssignmentFail)
	}

	if a.EntityKind == assignment.EntityKindUser {
		h.permissions.Invalidate(orgID, a.EntityID)
	}
	h.auditLogger.LogFromContext(c, audit.ResourceTypeRoleAssignment, &assignmentID, audit.ActionDelete, audit.StatusSuccess, map[string]any{
		"role_id":     a.RoleID,
		"entity_kind": a.EntityKind,
		"entity_id":   a.EntityID,
	})

	return c.NoContent(http.StatusNoContent)
}

// PreviewAssignment evaluates an assignment form against the entity's current
// assignments without writing anything.
func (h *AssignmentHandler) PreviewAssignment(c echo.Context) error {
	orgID, err := auth.GetOrgID(c)
	if err != nil {
		return respondError(c, http.StatusNotFound, err.Error())
	}

	var form resolver.Form
	if err := bindStrictJSON(c, &form); err != nil {
		return handleHTTPError(c, err)
	}
	if err := form.Kind.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, msgEntityKindFormat)
	}
	if form.EntityID == uuid.Nil {
		return respondError(c, http.StatusBadRequest, msgInvalidEntityID)
	}

	ctx := c.Request().Context()
	roles, err := h.roleRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return respondInternal(c, err, msgPreviewAssignmentFail)
	}
	projects, err := h.projectRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return respondInternal(c, err, msgPreviewAssignmentFail)
	}
	assignments, err := h.assignmentRepo.List(ctx, assignment.ListFilter{
		OrganizationID: orgID,
		EntityKind:     form.Kind,
		EntityID:       form.EntityID,
	})
	if err != nil {
		return respondInternal(c, err, msgPreviewAssignmentFail)
	}

	view := resolver.Evaluate(form, resolver.Snapshot{
		Roles:       derefRoles(roles),
		Projects:    derefProjects(projects),
		Assignments: derefAssignments(assignments),
	})

	return c.JSON(http.StatusOK, view)
}

// checkEntity returns the lookup error for an entity outside orgID, along
// with the message to use when it is a not-found.
func (h *AssignmentHandler) checkEntity(ctx context.Context, orgID uuid.UUID, kind assignment.EntityKind, entityID uuid.UUID) (string, error) {
	if kind == assignment.EntityKindGroup {
		_, err := h.groupRepo.GetByID(ctx, orgID, entityID)
		return msgGroupNotFound, err
	}
	_, err := h.members.GetMember(ctx, orgID, entityID)
	return msgEntityNotMember, err
}

func (h *AssignmentHandler) evaluateGrant(c echo.Context, orgID, callerID uuid.UUID, kind assignment.EntityKind, r *role.Role, req CreateAssignmentRequest) (policy.Decision, error) {
	ctx := c.Request().Context()

	held, err := h.roleRepo.TypesForUser(ctx, orgID, callerID)
	if err != nil {
		return policy.Decision{}, err
	}

	caller := policy.Caller{UserID: callerID.String(), Roles: make([]string, 0, len(held))}
	for _, t := range held {
		caller.Roles = append(caller.Roles, string(t.Canonical()))
	}

	return h.grants.Evaluate(ctx, caller, policy.Grant{
		RoleType:   string(r.Type.Canonical()),
		EntityKind: string(kind),
		EntityID:   req.EntityID.String(),
		ProjectID:  req.ProjectID.String(),
	})
}

func (h *AssignmentHandler) respondLookupError(c echo.Context, err error, notFound string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return respondError(c, http.StatusNotFound, notFound)
	}
	return respondInternal(c, err, msgLookupFail)
}

func derefRoles(in []*role.Role) []role.Role {
	out := make([]role.Role, 0, len(in))
	for _, r := range in {
		out = append(out, *r)
	}
	return out
}

func derefProjects(in []*project.Project) []project.Project {
	out := make([]project.Project, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}

func derefAssignments(in []*assignment.RoleAssignment) []assignment.RoleAssignment {
	out := make([]assignment.RoleAssignment, 0, len(in))
	for _, a := range in {
		out = append(out, *a)
	}
	return out
}
