package router

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/storage/redis"

	"github.com/vitrinepost/vitrinepost/internal/pkg/cache"
	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
)

// NewLimiterStorage returns Redis backed limiter storage on its own database
// so that limits hold across instances. It returns nil, which makes the
// limiter keep counters in memory, when Redis is unreachable.
func NewLimiterStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		log.Warnf("[Router] redis unavailable, rate limits are per instance: %v", err)
		return nil
	}

	host := "localhost"
	port := 6379
	addr := cacheClient.Options().Addr
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cacheClient.Options().Password,
		Database: env.GetEnvInt("LIMITER_REDIS_DB", 2),
		Reset:    false,
	})
}
