package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-seat-reservation/internal/config"
)

// takeTokenScript refills the bucket stored at KEYS[1] and spends one
// token.  Returns {allowed, tokens_left, wait_ms}.
var takeTokenScript = redis.NewScript(`
local now, cap, step, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local b = redis.call('HMGET', KEYS[1], 't', 'ts')
local t, ts = tonumber(b[1]), tonumber(b[2])
if t == nil or ts == nil then
  t, ts = cap, now
end
local n = math.floor(math.max(0, now - ts) / every)
if n > 0 then
  t = math.min(cap, t + n * step)
  ts = ts + n * every
end
local ok, wait = 0, 0
if t > 0 then
  ok, t = 1, t - 1
else
  wait = math.max(0, every - (now - ts))
end
redis.call('HSET', KEYS[1], 't', t, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ttl)
return {ok, t, wait}
`)

// decision is one evaluation of a caller's bucket.
type decision struct {
	allowed bool
	left    int64
	wait    time.Duration
}

type tokenBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

func (b tokenBucket) take(ctx context.Context, key string) (decision, error) {
	vals, err := takeTokenScript.Run(ctx, b.rdb, []string{key},
		time.Now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(vals) != 3 {
		return decision{}, fmt.Errorf("unexpected script reply %v", vals)
	}
	return decision{
		allowed: vals[0] == 1,
		left:    vals[1],
		wait:    time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket throttles booking and login attempts with a Redis token
// bucket per endpoint and caller.  With limiting disabled or no Redis
// client every request passes; Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	b := tokenBucket{cfg: cfg, rdb: rdb}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			d, err := b.take(c.Request().Context(), key)
			if err != nil {
				c.Logger().Warnf("[ratelimit] %s: %v", key, err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.left, 10))
			if d.allowed {
				return next(c)
			}
			secs := int(math.Ceil(d.wait.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many attempts, try again later",
				"retry_after": secs,
			})
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// rateKey gives each endpoint its own bucket per caller, so repeated seat
// grabs do not eat into the login budget.  Signed-in admins are keyed by
// account, everyone else by client address.
func rateKey(prefix string, c echo.Context) string {
	who := "ip:" + c.RealIP()
	if sub := Subject(c); sub != anonSubject {
		who = "admin:" + sub
	}
	return prefix + ":" + c.Request().Method + c.Path() + ":" + who
}
