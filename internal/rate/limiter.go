package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is the time until the window resets. Set only on rejection.
	RetryAfter time.Duration
}

// Limiter enforces per-identifier fixed-window limits using Redis counters.
// The limit and window are supplied per call, not fixed at construction, so a
// single Limiter serves differently-tuned route classes.
type Limiter struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a [Limiter] backed by the given Redis client. All counter keys
// are namespaced under prefix.
func New(redisClient redis.UniversalClient, prefix string) *Limiter {
	return &Limiter{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Allow increments the counter for key and reports whether the caller is
// within the budget of `times` hits per `window`.
//
// The INCR is the atomic admission point: the count it returns is unique to
// this call, so at most `times` concurrent callers ever see a value within
// the limit. Counters above the limit are left to expire with the window.
func (l *Limiter) Allow(ctx context.Context, key string, times int, window time.Duration) (Decision, error) {
	full := l.prefix + ":" + key

	count, err := l.redis.Incr(ctx, full).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, full, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(times) {
		retryAfter, err := l.redis.PTTL(ctx, full).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if retryAfter <= 0 {
			// Key without TTL (lost expire under a prior outage); bound the
			// answer by the window rather than reporting forever.
			retryAfter = window
		}
		return Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	return Decision{Allowed: true, Remaining: times - int(count)}, nil
}
