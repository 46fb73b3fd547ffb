package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
)

type monitoringRepository interface {
	ListVisible(ctx context.Context, id scope.Identity) ([]models.MonitoringRow, error)
}

// MonitoringService serves the attendance monitoring view, cached per
// caller when the cache layer is enabled.
type MonitoringService struct {
	repo   monitoringRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewMonitoringService constructs MonitoringService.
func NewMonitoringService(repo monitoringRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *MonitoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonitoringService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns the monitoring rows visible to the caller. Cached entries
// are scoped by role and caller so one user's view never leaks into
// another's.
func (s *MonitoringService) List(ctx context.Context, id scope.Identity) ([]models.MonitoringRow, error) {
	key := fmt.Sprintf("monitoring:%s:%s", id.Role, id.ID)

	var cached []models.MonitoringRow
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.repo.ListVisible(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to list monitoring data")
	}

	if err := s.cache.Set(ctx, key, rows, s.ttl); err != nil {
		s.logger.Warn("failed to cache monitoring data", zap.String("key", key), zap.Error(err))
	}
	return rows, nil
}
