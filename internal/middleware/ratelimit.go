package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/pwalcz/cinema-ticket-booking/internal/config"
)

// NewTokenBucket returns a distributed rate-limiting middleware backed
// by Redis.  Each client gets a token bucket keyed by IP, user and
// route; the bucket state lives in a Redis hash and is refilled and
// decremented atomically by a Lua script so concurrent API instances
// share one budget.  When Redis is unavailable the middleware lets
// requests through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	bucket := redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local capacity = tonumber(ARGV[2])
		local interval_ms = tonumber(ARGV[3])
		local ttl_seconds = tonumber(ARGV[4])

		local state = redis.call('HMGET', key, 'tokens', 'refilled_ms')
		local tokens = tonumber(state[1])
		local refilled = tonumber(state[2])
		if tokens == nil or refilled == nil then
			tokens = capacity
			refilled = now_ms
		end

		local elapsed = math.max(0, now_ms - refilled)
		local earned = math.floor(elapsed / interval_ms)
		if earned > 0 then
			tokens = math.min(capacity, tokens + earned)
			refilled = refilled + earned * interval_ms
		end

		local allowed = 0
		local retry_ms = 0
		if tokens > 0 then
			allowed = 1
			tokens = tokens - 1
		else
			retry_ms = math.max(0, interval_ms - (now_ms - refilled))
		end

		redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
		redis.call('EXPIRE', key, ttl_seconds)
		return { allowed, tokens, retry_ms }
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			vals, err := bucket.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(vals) != 3 {
				// limiter outage must not take the API down with it
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

			if vals[0] != 1 {
				secs := int(math.Ceil(float64(vals[2]) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// rateKey identifies the bucket.  Authenticated traffic is bucketed
// per user so a shared NAT address does not starve other customers;
// anonymous traffic falls back to the client IP.
func rateKey(prefix string, c echo.Context) string {
	who := c.RealIP()
	if id, ok := c.Get("user_id").(uint64); ok {
		who = "u" + strconv.FormatUint(id, 10)
	}
	return prefix + ":" + who + ":" + c.Request().Method + ":" + c.Path()
}
