package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sampleapp/internal/auth/throttle"
	"sampleapp/internal/config"
	"sampleapp/internal/logger"
	"sampleapp/internal/mongo"
	"sampleapp/internal/redis"
	"sampleapp/internal/store"
)

type Infra struct {
	Store   store.Store
	Limiter throttle.Limiter

	mongo *mongo.Client // nil with the memory driver
	redis *redis.Client // nil without REDIS_ADDR
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		memStore := store.NewMemoryStore()
		if cfg.TestsSeedFile != "" {
			if err := seedTests(memStore, cfg.TestsSeedFile); err != nil {
				return nil, err
			}
		}
		infra.Store = memStore
		logger.Warn("using in-memory store, data will not survive a restart", nil)

	default:
		client, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		infra.mongo = client

		mongoStore := store.NewMongoStore(client.Database())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			_ = infra.Close(context.Background())
			return nil, err
		}
		infra.Store = mongoStore

		logger.Info("mongodb ready", map[string]any{
			"database": cfg.MongoDatabase,
		})
	}

	throttleCfg := throttle.Config{
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginWindow,
		Lock:        cfg.LoginLock,
	}

	if cfg.RedisAddr == "" {
		infra.Limiter = throttle.NewMemoryLimiter(throttleCfg)
		return infra, nil
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = infra.Close(context.Background())
		return nil, err
	}
	infra.redis = redisClient
	infra.Limiter = throttle.NewRedisLimiter(redisClient.Client, throttleCfg)

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return infra, nil
}

func seedTests(st *store.MemoryStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open tests seed: %w", err)
	}
	defer f.Close()

	n, err := st.SeedTests(f)
	if err != nil {
		return err
	}

	logger.Info("tests collection seeded", map[string]any{
		"file":    path,
		"records": n,
	})
	return nil
}

// Close releases every connection opened by setupInfra.
func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	if i.mongo != nil {
		errs = append(errs, i.mongo.Close(ctx))
	}
	if i.redis != nil {
		errs = append(errs, i.redis.Close())
	}
	return errors.Join(errs...)
}
