package throttle

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	failKeyPrefix = "login:fail:"
	lockKeyPrefix = "login:lock:"
)

// RedisLimiter shares attempt counters between server instances.
type RedisLimiter struct {
	rdb goredis.Cmdable
	cfg Config
}

func NewRedisLimiter(rdb goredis.Cmdable, cfg Config) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg}
}

func (r *RedisLimiter) Locked(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.rdb.PTTL(ctx, lockKeyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("throttle: read lock: %w", err)
	}
	// -1 and -2 mean no expiry and missing key.
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

func (r *RedisLimiter) Fail(ctx context.Context, key string) (int, error) {
	failKey := failKeyPrefix + key

	count, err := r.rdb.Incr(ctx, failKey).Result()
	if err != nil {
		return 0, fmt.Errorf("throttle: count failure: %w", err)
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, failKey, r.cfg.Window).Err(); err != nil {
			return 0, fmt.Errorf("throttle: expire counter: %w", err)
		}
	}

	if count < int64(r.cfg.MaxAttempts) {
		return r.cfg.MaxAttempts - int(count), nil
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, lockKeyPrefix+key, 1, r.cfg.Lock)
		pipe.Del(ctx, failKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("throttle: lock: %w", err)
	}
	return 0, nil
}

func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, failKeyPrefix+key, lockKeyPrefix+key).Err()
}
