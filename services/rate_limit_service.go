package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}

// RateLimitService counts requests in clock-aligned windows kept in Redis.
// Each window has its own key, so retry-after is the time left until the
// next boundary and needs no extra round-trip.
type RateLimitService struct {
	redis  redis.Cmdable
	prefix string
	now    func() time.Time
}

var _ RateLimiterInterface = (*RateLimitService)(nil)

func NewRateLimitService(rdb redis.Cmdable) *RateLimitService {
	return &RateLimitService{redis: rdb, prefix: "campus:rl:", now: time.Now}
}

// windowKey names the bucket holding now for the given key.
func (s *RateLimitService) windowKey(key string, window time.Duration, now time.Time) (string, time.Time) {
	start := now.Truncate(window)
	return s.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(window)
}

func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if window <= 0 || limit <= 0 {
		return false, 0, fmt.Errorf("rate limit %s: limit and window must be positive", key)
	}
	now := s.now()
	bucket, resetAt := s.windowKey(key, window, now)

	var count *redis.IntCmd
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, bucket)
		// Keep the bucket one extra window so clock skew between replicas
		// does not reset a count early.
		pipe.Expire(ctx, bucket, 2*window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if count.Val() <= int64(limit) {
		return true, 0, nil
	}
	retry := resetAt.Sub(now)
	if retry < time.Second {
		retry = time.Second
	}
	return false, retry, nil
}
