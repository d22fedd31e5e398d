package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Sliding window over a sorted set of hit timestamps.
// KEYS[1] = window key
// ARGV[1] = now (ms)
// ARGV[2] = window length (ms)
// ARGV[3] = limit
// ARGV[4] = unique hit member
//
// Returns {allowed, hits, retry_after_ms}.
const slidingWindowScript = `
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)
redis.call('ZADD', KEYS[1], 'NX', now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)

local hits = redis.call('ZCARD', KEYS[1])
if hits <= limit then
  return {1, hits, 0}
end

local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local oldestAt = tonumber(oldest[2]) or (now - window)
local retry = window - (now - oldestAt)
if retry < 0 then retry = 0 end
return {0, hits, retry}
`

// SlidingWindowLimiter throttles checkout initiations per client key so a
// misbehaving caller cannot mint unbounded pending orders and provider
// sessions.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	script *redis.Script
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	prefix string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		script: redis.NewScript(slidingWindowScript),
	}
}

// Allow records one hit for key and reports whether it stayed within the
// window limit. retryAfter is how long the caller should wait before the
// oldest hit ages out.
func (l *SlidingWindowLimiter) Allow(
	ctx context.Context,
	key string,
) (allowed bool, hits int64, retryAfter time.Duration, err error) {
	res, err := l.script.Run(
		ctx,
		l.rdb,
		[]string{fmt.Sprintf("%s:%s", l.prefix, key)},
		time.Now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("redisrepo.SlidingWindowLimiter.Allow: %w", err)
	}
	if len(res) != 3 {
		return false, 0, 0, fmt.Errorf("redisrepo.SlidingWindowLimiter.Allow: bad script result %v", res)
	}

	return res[0] == 1, res[1], time.Duration(res[2]) * time.Millisecond, nil
}
