package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/config"
)

// bucketScript refills continuously at rate tokens per millisecond and
// takes one token.  It returns {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local ts = tonumber(redis.call('HGET', KEYS[1], 'ts'))
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end
tokens = math.min(capacity, tokens + math.max(0, now - ts) * rate)

local allowed = 0
local retry = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  retry = math.ceil((1 - tokens) / rate)
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', now)
redis.call('EXPIRE', KEYS[1], ttl)
return {allowed, math.floor(tokens), retry}
`)

type decision struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

var errBadScriptReply = errors.New("ratelimit: unexpected script reply")

type limiter struct {
	cfg  config.RateLimitConfig
	rdb  *redis.Client
	rate float64 // tokens per millisecond
}

func (l *limiter) take(ctx context.Context, key string, now time.Time) (decision, error) {
	reply, err := bucketScript.Run(ctx, l.rdb, []string{key},
		l.cfg.Capacity, strconv.FormatFloat(l.rate, 'g', -1, 64), now.UnixMilli(), int64(l.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	return parseDecision(reply)
}

func parseDecision(reply []int64) (decision, error) {
	if len(reply) != 3 {
		return decision{}, errBadScriptReply
	}
	return decision{
		allowed:   reply[0] == 1,
		remaining: reply[1],
		retry:     time.Duration(reply[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits requests with a Redis token bucket per key (see
// RateLimitConfig.KeyStrategy).  When Redis fails the request goes through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	l := &limiter{
		cfg:  cfg,
		rdb:  rdb,
		rate: float64(cfg.RefillTokens) / float64(max(cfg.RefillInterval.Milliseconds(), 1)),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			d, err := l.take(c.Request().Context(), key, time.Now())
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: %s: %v", key, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if !d.allowed {
				secs := int((d.retry + time.Second - 1) / time.Second)
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":      "too many requests",
					"retryAfter": secs,
				})
			}
			return next(c)
		}
	}
}

// buildRateKey joins the prefix with the parts the strategy names.
// Anonymous callers share the "anon" user.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	part := map[string][]string{
		"ip":    {"ip", ip},
		"user":  {"user", UserID(c)},
		"route": {"route", c.Request().Method + " " + c.Path()},
	}
	strategy := strings.ToLower(cfg.KeyStrategy)
	names := strings.Split(strategy, "_")
	if strategy == "" || strategy == "ip_user_route" {
		names = []string{"ip", "user", "route"}
	}
	parts := []string{cfg.Prefix}
	for _, n := range names {
		p, ok := part[n]
		if !ok {
			return buildRateKey(config.RateLimitConfig{Prefix: cfg.Prefix}, c)
		}
		parts = append(parts, p...)
	}
	return strings.Join(parts, ":")
}
