package stats

import (
	"context"
	"encoding/json"

	"pharmakiosk/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func cacheKey(op string, frame TimeFrame) string {
	return utils.StatsCachePrefix + op + ":" + string(frame)
}

// fromCache loads a cached result into dst. Any cache failure is a miss.
func (s *DefaultStatsService) fromCache(ctx context.Context, op string, frame TimeFrame, dst interface{}) bool {
	if s.Cache == nil {
		return false
	}
	key := cacheKey(op, frame)
	data, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger().Warn("Stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger().Warn("Stats cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// toCache stores a computed result. Zero fallbacks from failed loads are never
// passed here.
func (s *DefaultStatsService) toCache(ctx context.Context, op string, frame TimeFrame, v interface{}) {
	if s.Cache == nil {
		return
	}
	key := cacheKey(op, frame)
	data, err := json.Marshal(v)
	if err != nil {
		s.logger().Warn("Failed to encode stats cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, key, data, s.CacheTTL).Err(); err != nil {
		s.logger().Warn("Stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
