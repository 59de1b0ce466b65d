package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/config"
	"github.com/casefetch/court-api/internal/scraper"
	"github.com/casefetch/court-api/internal/store"
)

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	store       *store.Store

	CaseService  CaseServiceInterface
	CacheService CacheServiceInterface
}

// NewContainer creates a new service container
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initRedis(); err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	if err := container.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return container, nil
}

// initRedis initializes the Redis client. A failed connection downgrades to
// the in-memory cache instead of aborting startup.
func (c *Container) initRedis() error {
	c.redisClient = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	ctx := context.Background()
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		c.logger.Warn("Redis connection failed, running without cache")
		c.redisClient = nil
	} else {
		c.logger.Info("Redis connection established")
	}
	return nil
}

// initServices initializes all services
func (c *Container) initServices() error {
	c.CacheService = NewCacheService(c.redisClient, c.config.Court.CacheTTL, c.logger)
	if cs, ok := c.CacheService.(*CacheService); ok {
		cs.StartCleanupRoutine()
	}

	st, err := store.Open(c.config.Database.Path, c.config.Database.BusyTimeout, c.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.store = st

	sc, err := scraper.New(c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}
	fetcher := scraper.NewFetcher(c.config.Download, c.logger)

	c.CaseService = NewCaseService(c.config, c.CacheService, c.store, sc, fetcher, c.logger)
	return nil
}

// Close closes all service connections
func (c *Container) Close() error {
	var errs []error

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}

// Health checks the health of all services
func (c *Container) Health() map[string]interface{} {
	health := make(map[string]interface{})

	if c.redisClient != nil {
		ctx := context.Background()
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			health["redis"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			health["redis"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		health["redis"] = map[string]interface{}{
			"status": "disabled",
		}
	}

	if c.CaseService != nil {
		health["case"] = c.CaseService.Health()
	}
	return health
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.redisClient
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}
