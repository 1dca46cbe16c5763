package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/maelc/combat-notation/internal/config"
)

// NewTokenBucket returns a distributed token-bucket limiter keyed on client
// IP, user and route. With a nil Redis client (or Enabled=false) it is a
// pass-through; Redis errors also fail open so an unavailable limiter never
// takes the API down.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	limiterScript := redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local capacity = tonumber(ARGV[2])
		local refill_tokens = tonumber(ARGV[3])
		local interval_ms = tonumber(ARGV[4])
		local ttl_seconds = tonumber(ARGV[5])

		local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
		local tokens = tonumber(state[1])
		local last_refill = tonumber(state[2])

		if tokens == nil or last_refill == nil then
			tokens = capacity
			last_refill = now_ms
		end

		if interval_ms > 0 and refill_tokens > 0 then
			local elapsed = math.max(0, now_ms - last_refill)
			local intervals = math.floor(elapsed / interval_ms)
			if intervals > 0 then
				tokens = math.min(capacity, tokens + (intervals * refill_tokens))
				last_refill = last_refill + (intervals * interval_ms)
			end
		end

		local allowed = 0
		local retry_after_ms = 0
		if tokens > 0 then
			allowed = 1
			tokens = tokens - 1
		else
			local until_next = interval_ms - (now_ms - last_refill)
			if until_next < 0 then until_next = 0 end
			retry_after_ms = until_next
		end

		redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
		redis.call('EXPIRE', key, ttl_seconds)
		return {allowed, retry_after_ms}
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := bucketKey(cfg.Prefix, c)
			now := time.Now().UnixMilli()
			res, err := limiterScript.Run(c.Request().Context(), rdb,
				[]string{key},
				now,
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int(cfg.TTL.Seconds()),
			).Int64Slice()
			if err != nil || len(res) != 2 {
				return next(c) // fail open
			}
			if res[0] != 1 {
				retryAfter := time.Duration(res[1]) * time.Millisecond
				c.Response().Header().Set("Retry-After",
					strconv.Itoa(int(retryAfter.Seconds()+0.999)))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate_limited"})
			}
			return next(c)
		}
	}
}

func bucketKey(prefix string, c echo.Context) string {
	user := "guest"
	if id, ok := c.Get(CtxUserID).(uint64); ok {
		user = strconv.FormatUint(id, 10)
	}
	return fmt.Sprintf("%s:%s:%s:%s", prefix, c.RealIP(), user, c.Path())
}
