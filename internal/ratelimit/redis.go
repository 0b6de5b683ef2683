package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {n, ttl}
`)

// RedisLimiter is a fixed-window Limiter shared by every instance that talks to the same Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	policy Policy
}

// NewRedisLimiter returns a limiter that stores counters under prefix.
func NewRedisLimiter(client redis.UniversalClient, prefix string, p Policy) *RedisLimiter {
	if prefix == "" {
		prefix = "authify:rl"
	}
	return &RedisLimiter{client: client, prefix: prefix, policy: p}
}

// Allow counts an attempt for key atomically.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.client == nil {
		return Decision{}, errors.New("ratelimit: redis client is nil")
	}
	res, err := fixedWindowScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, l.policy.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, oops.Code("RATE_LIMIT_BACKEND_FAILED").With("key", key).Wrap(err)
	}
	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > l.policy.Limit {
		if ttl <= 0 {
			ttl = l.policy.Window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: l.policy.Limit - count}, nil
}
