package application

import (
	"context"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

const statsCacheKey = "addresses:stats"

// Stats aggregates totals per city and per derived status. The grouping is
// done by the store; this only fills in missing status keys.
func (s *AddressService) Stats(ctx context.Context) (*entity.AddressStats, error) {
	if s.Redis != nil && s.StatsTTL > 0 {
		var cached entity.AddressStats
		found, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache read failed")
		}
		if found {
			return &cached, nil
		}
	}

	byCity, err := s.Repo.CountByCity(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	byStatus, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}

	stats := &entity.AddressStats{
		ByCity:       byCity,
		StatusCounts: make(map[entity.Status]int64, len(entity.Statuses)),
	}
	for _, st := range entity.Statuses {
		stats.StatusCounts[st] = byStatus[st]
		stats.Total += byStatus[st]
	}
	if stats.ByCity == nil {
		stats.ByCity = map[string]int64{}
	}

	if s.Redis != nil && s.StatsTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, stats, s.StatsTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *AddressService) invalidateStats(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, statsCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("stats cache invalidation failed")
	}
}
