package http

import (
	"access-service/internal/auth"
	"access-service/internal/config"
	"access-service/internal/domain/assignment"
	"access-service/internal/http/handler"
	"access-service/internal/http/middleware"
	"access-service/internal/rbac"
	"access-service/internal/rbac/presets"
	"context"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	statusDegraded   = "degraded"
	requestBodyLimit = "1M"
)

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	Checker        *rbac.Checker
	OrgCreator     handler.OrganizationCreator
	UserRepo       handler.UserRepository
	OrgRepo        handler.OrganizationRepository
	ProjectRepo    handler.ProjectRepository
	RoleRepo       handler.RoleRepository
	GroupRepo      handler.GroupRepository
	AssignmentRepo handler.AssignmentRepository
	ReviewSource   handler.ReviewSource
	Members        handler.MemberGetter
	GrantPolicy    handler.GrantPolicy
	ReviewExporter handler.ReviewExporter
	JWTService     *auth.JWTService
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
	AuditLogger    handler.AuditLogger
	AuditReader    handler.AuditReader
	HealthChecks   map[string]HealthChecker
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so every log line carries it.
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	if deps.Config.Server.MetricsEnabled {
		metrics := middleware.NewRequestMetrics()
		e.Use(metrics.Middleware())
		e.GET("/metrics/requests", metrics.Handler)
	}
	if deps.Config.Server.PprofEnabled {
		registerPprof(e)
	}

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.UserRepo, deps.JWTService, deps.AuditLogger)
	orgHandler := handler.NewOrganizationHandler(deps.OrgCreator, deps.OrgRepo, deps.UserRepo, deps.AuditLogger)
	projectHandler := handler.NewProjectHandler(deps.ProjectRepo, deps.RBACMiddleware, deps.AuditLogger)
	roleHandler := handler.NewRoleHandler(deps.RoleRepo, deps.AuditLogger)
	groupHandler := handler.NewGroupHandler(deps.GroupRepo, deps.AuditLogger)
	assignmentHandler := handler.NewAssignmentHandler(handler.AssignmentDependencies{
		Assignments: deps.AssignmentRepo,
		Roles:       deps.RoleRepo,
		Projects:    deps.ProjectRepo,
		Groups:      deps.GroupRepo,
		Members:     deps.Members,
		Grants:      deps.GrantPolicy,
		Permissions: deps.RBACMiddleware,
		AuditLogger: deps.AuditLogger,
	})
	permissionHandler := handler.NewPermissionHandler(deps.Checker, deps.RoleRepo)
	reviewHandler := handler.NewAccessReviewHandler(deps.ReviewSource, deps.ReviewExporter, deps.AuditReader, deps.AuditLogger, deps.Config.App.PageSize)

	e.POST("/auth/signup", authHandler.Signup, strictRateLimiter.Middleware())
	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck(deps.HealthChecks))

	api := e.Group("/api/v1")
	api.Use(deps.AuthMiddleware.RequireJWT())
	api.Use(middleware.NewRateLimiter(20, 40).Middleware())

	api.GET("/organizations", orgHandler.ListOrganizations)
	api.POST("/organizations", orgHandler.CreateOrganization)

	org := api.Group("/organizations/:org_id")
	can := deps.RBACMiddleware.RequireOrgPermission

	org.GET("/members", orgHandler.ListMembers, can(presets.ResourceMember, presets.ActionRead))
	org.POST("/members", orgHandler.AddMember, can(presets.ResourceMember, presets.ActionWrite))

	org.GET("/projects", projectHandler.ListProjects, can(presets.ResourceProject, presets.ActionRead))
	org.POST("/projects", projectHandler.CreateProject, can(presets.ResourceProject, presets.ActionWrite))
	org.DELETE("/projects/:id", projectHandler.DeleteProject, can(presets.ResourceProject, presets.ActionDelete))

	org.GET("/roles", roleHandler.ListRoles, can(presets.ResourceRole, presets.ActionRead))
	org.POST("/roles", roleHandler.CreateRole, can(presets.ResourceRole, presets.ActionWrite))
	org.DELETE("/roles/:id", roleHandler.DeleteRole, can(presets.ResourceRole, presets.ActionDelete))

	org.GET("/groups", groupHandler.ListGroups, can(presets.ResourceGroup, presets.ActionRead))
	org.POST("/groups", groupHandler.CreateGroup, can(presets.ResourceGroup, presets.ActionWrite))

	for _, kind := range []assignment.EntityKind{assignment.EntityKindUser, assignment.EntityKindGroup} {
		path := "/roles/assignments/" + kind.Plural()
		org.GET(path+"/:id", assignmentHandler.ListForEntity(kind), can(presets.ResourceRoleAssignment, presets.ActionRead))
		org.POST(path, assignmentHandler.CreateAssignment(kind), can(presets.ResourceRoleAssignment, presets.ActionWrite))
	}
	org.POST("/roles/assignments/preview", assignmentHandler.PreviewAssignment, can(presets.ResourceRoleAssignment, presets.ActionRead))
	org.DELETE("/roles/assignments/:assignment_id", assignmentHandler.DeleteAssignment, can(presets.ResourceRoleAssignment, presets.ActionDelete))

	org.GET("/permissions/matrix", permissionHandler.GetMatrix, can(presets.ResourceOrganization, presets.ActionRead))

	org.POST("/access-reviews", reviewHandler.ExportReview, can(presets.ResourceReport, presets.ActionManage))
	org.GET("/audit-events", reviewHandler.ListAuditEvents, can(presets.ResourceOrganization, presets.ActionWrite))

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func healthCheck(checks map[string]HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]string{jsonKeyStatus: statusOK}
		code := stdhttp.StatusOK

		for name, check := range checks {
			if err := check.HealthCheck(c.Request().Context()); err != nil {
				c.Logger().Errorf("health check %s failed: %v", name, err)
				body[name] = statusDegraded
				body[jsonKeyStatus] = statusDegraded
				code = stdhttp.StatusServiceUnavailable
				continue
			}
			body[name] = statusOK
		}

		return c.JSON(code, body)
	}
}
