package data

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
)

const (
	logEventDataFetchFailed = "data_fetch_failed"
	logFieldDataKey         = "key"
)

// RedisResolver reads current data values from Redis, one float per data id.
type RedisResolver struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewRedisResolver creates a RedisResolver. The key prefix is prepended to
// every data id when building the Redis key.
func NewRedisResolver(client *redis.Client, logger *zap.Logger, keyPrefix string) *RedisResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResolver{client: client, logger: logger, keyPrefix: keyPrefix}
}

// ResolveValues fetches the value of every referenced data id. Missing keys
// stay absent from the result so the transform pipeline can surface an
// explicit no-data state; transient fetch failures are logged and treated the
// same way rather than failing the whole dashboard load.
func (resolver *RedisResolver) ResolveValues(ctx context.Context, records []model.Widget) (map[string]float64, error) {
	resolved := make(map[string]float64)
	for _, dataID := range CollectDataIDs(records) {
		key := resolver.keyPrefix + dataID
		value, fetchErr := resolver.client.Get(ctx, key).Float64()
		if fetchErr != nil {
			if !errors.Is(fetchErr, redis.Nil) {
				resolver.logger.Warn(logEventDataFetchFailed, zap.String(logFieldDataKey, key), zap.Error(fetchErr))
			}
			continue
		}
		resolved[dataID] = value
	}
	return resolved, nil
}
