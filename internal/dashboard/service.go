package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stawicover/agency-api/pkg/logger"
)

const (
	cacheKey = "dashboard:stats"
	cacheTTL = 60 * time.Second
)

// Service computes dashboard stats with a short Redis cache in front.
// A nil redis client disables caching.
type Service struct {
	repo  Repository
	redis *redis.Client
}

// NewService creates a new dashboard service.
func NewService(repo Repository, rdb *redis.Client) *Service {
	return &Service{repo: repo, redis: rdb}
}

// Stats returns the dashboard snapshot, from cache when fresh.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.ComputeStats()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if b, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, cacheKey, b, cacheTTL).Err(); err != nil {
				// Cache failures never fail the request.
				logger.Warn(ctx).Err(err).Msg("Failed to cache dashboard stats")
			}
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot.
func (s *Service) Invalidate(ctx context.Context) {
	if s.redis != nil {
		s.redis.Del(ctx, cacheKey)
	}
}
