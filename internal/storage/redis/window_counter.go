package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "wanderlust:rl:"

// WindowCounter counts hits per key in fixed windows shared by every
// process talking to the same Redis.
type WindowCounter struct {
	client *redis.Client
}

func NewWindowCounter(client *redis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Incr records a hit for key and returns the count in the current window and
// when the window resets. The first hit in a window starts its expiry.
func (c *WindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := rateKeyPrefix + key

	count, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr rate counter: %w", err)
	}
	if count == 1 {
		if err := c.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire rate counter: %w", err)
		}
	}

	ttl, err := c.client.PTTL(ctx, k).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ttl rate counter: %w", err)
	}
	if ttl < 0 {
		// lost the expiry (crash between INCR and PEXPIRE); restart the window
		if err := c.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire rate counter: %w", err)
		}
		ttl = window
	}

	return count, time.Now().Add(ttl), nil
}
