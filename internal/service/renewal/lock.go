// internal/service/renewal/lock.go
package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKey = "renewal:run_lock"
	lockTTL = 10 * time.Minute
)

// RedisRunGuard is a single-key Redis lock preventing overlapping renewal
// runs. The TTL bounds how long a crashed run can block the next one.
type RedisRunGuard struct {
	client *redis.Client
}

func NewRedisRunGuard(client *redis.Client) *RedisRunGuard {
	return &RedisRunGuard{client: client}
}

func (g *RedisRunGuard) Acquire(ctx context.Context) (bool, error) {
	ok, err := g.client.SetNX(ctx, lockKey, time.Now().Format(time.RFC3339), lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set run lock: %w", err)
	}
	return ok, nil
}

func (g *RedisRunGuard) Release(ctx context.Context) error {
	return g.client.Del(ctx, lockKey).Err()
}
