package app

import (
	"context"
	"log"
	"time"

	"drive-service/internal/cache"
	"drive-service/internal/config"
	"drive-service/internal/http"
)

const (
	serverAddrPrefix   = ":"
	cacheSweepInterval = 5 * time.Minute
	bucketCheckTimeout = 30 * time.Second
)

// Service is the running drive backend.
type Service struct {
	config   *config.Config
	urlCache *cache.URLCache
	server   *http.Server
	closers  []func()
	ctx      context.Context
	stop     context.CancelFunc
}

// NewService is a convenience wrapper around InitializeService.
func NewService(cfg *config.Config) (*Service, error) {
	return InitializeService(cfg)
}

// Start runs the cache janitor and blocks serving HTTP until Shutdown.
func (s *Service) Start() error {
	s.urlCache.StartJanitor(s.ctx, cacheSweepInterval)

	log.Printf("Starting HTTP server on port %s", s.config.Server.Port)
	return s.server.Start(serverAddrPrefix + s.config.Server.Port)
}

// Shutdown drains the server and then releases the stores.
func (s *Service) Shutdown(ctx context.Context) error {
	s.stop()
	err := s.server.Shutdown(ctx)
	s.close()
	return err
}

func (s *Service) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
