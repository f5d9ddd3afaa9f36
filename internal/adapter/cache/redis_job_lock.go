package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisJobLock dedupes overlapping scheduled-job runs. It is an
// optimization, not a correctness guarantee: callers treat a lock error as
// "run anyway" so a flaky redis never stalls the scheduler.
type RedisJobLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisJobLock(rdb *redis.Client, ttl time.Duration) *RedisJobLock {
	return &RedisJobLock{rdb: rdb, ttl: ttl}
}

func (l *RedisJobLock) TryLock(ctx context.Context, job string) (bool, error) {
	return l.rdb.SetNX(ctx, "cronlock:"+job, "1", l.ttl).Result()
}

func (l *RedisJobLock) Unlock(ctx context.Context, job string) error {
	return l.rdb.Del(ctx, "cronlock:"+job).Err()
}
