package app

import (
	"access-service/internal/config"
	"access-service/internal/infra/cache"
	"access-service/internal/repository/postgres"
	"context"
	"log"
	"time"

	accesshttp "access-service/internal/http"
)

const cacheCleanupInterval = 5 * time.Minute

// Service is the running access API.
type Service struct {
	config    *config.Config
	db        *postgres.DB
	permCache *cache.PermissionCache
	server    *accesshttp.Server
	stop      chan struct{}
}

// NewService is a convenience wrapper around InitializeService.
func NewService(ctx context.Context) (*Service, error) {
	return InitializeService(ctx)
}

// Start serves HTTP until Shutdown is called.
func (s *Service) Start() error {
	go s.startCacheCleanup()

	addr := ":" + s.config.Server.Port
	log.Printf("Starting access service on %s", addr)
	return s.server.Start(addr)
}

// ShutdownTimeout is how long Shutdown may wait for in-flight requests.
func (s *Service) ShutdownTimeout() time.Duration {
	return s.config.Server.ShutdownTimeout
}

func (s *Service) startCacheCleanup() {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.permCache.Clear()
		case <-s.stop:
			return
		}
	}
}

// Shutdown drains the HTTP server and closes the database pool.
func (s *Service) Shutdown(ctx context.Context) error {
	close(s.stop)
	err := s.server.Shutdown(ctx)
	s.db.Close()
	return err
}
