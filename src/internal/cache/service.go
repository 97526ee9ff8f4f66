package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Service is a read-through JSON cache for get-by-id lookups. A miss is
// (nil, nil); cache failures degrade to the store and never fail a request.
type Service interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, key string) error
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

func (c *cacheService) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Cache miss")
			return nil, nil
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to read from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("key", key).Debug("Cache hit")
	return data, nil
}

func (c *cacheService) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to marshal value for cache")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.ExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to write to cache")
		return models.ErrRedisSet
	}

	return nil
}

func (c *cacheService) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to invalidate cache entry")
		return models.ErrRedisDel
	}
	logrus.WithField("key", key).Debug("Cache entry invalidated")
	return nil
}
