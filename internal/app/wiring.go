package app

import (
	"access-service/internal/audit"
	"access-service/internal/auth"
	"access-service/internal/config"
	"access-service/internal/http/handler"
	"access-service/internal/infra/cache"
	"access-service/internal/infra/s3"
	"access-service/internal/policy"
	"access-service/internal/rbac"
	"access-service/internal/rbac/presets"
	"access-service/internal/repository/postgres"
	"context"
	"fmt"
	"log"

	accesshttp "access-service/internal/http"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	grants, err := policy.NewFromFile(ctx, cfg.Policy.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment policy: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var exporter handler.ReviewExporter
	if cfg.AccessReview.Enabled() {
		client, err := s3.NewClient(&cfg.AWS, cfg.AccessReview)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		exporter = client
	} else {
		log.Println("Access review export disabled: ACCESS_REVIEW_BUCKET not set")
	}

	userRepo := postgres.NewUserRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	auditLogger := audit.NewLogger(db.Pool)

	checker := rbac.MustNew(presets.Platform())
	permCache := cache.NewPermissionCache(cfg.App.PermissionCacheTTL)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	server := accesshttp.NewServer(&accesshttp.ServerDependencies{
		Config:         cfg,
		Checker:        checker,
		OrgCreator:     db,
		UserRepo:       userRepo,
		OrgRepo:        orgRepo,
		ProjectRepo:    projectRepo,
		RoleRepo:       roleRepo,
		GroupRepo:      groupRepo,
		AssignmentRepo: assignmentRepo,
		ReviewSource:   assignmentRepo,
		Members:        orgRepo,
		GrantPolicy:    grants,
		ReviewExporter: exporter,
		JWTService:     jwtService,
		AuthMiddleware: auth.NewMiddleware(jwtService),
		RBACMiddleware: auth.NewRBACMiddleware(checker, orgRepo, roleRepo, permCache),
		AuditLogger:    auditLogger,
		AuditReader:    auditLogger,
		HealthChecks: map[string]accesshttp.HealthChecker{
			"database": db,
			"policy":   grants,
		},
	})

	return &Service{
		config:    cfg,
		db:        db,
		permCache: permCache,
		server:    server,
		stop:      make(chan struct{}),
	}, nil
}
