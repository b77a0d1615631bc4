package middleware

import (
	"context"
	"strconv"
	"time"

	"wallet-ledger/config"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitStore counts requests per key and window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// Endpoint groups with independent counters.
const (
	GroupRead       = "read"
	GroupWrite      = "write"
	GroupSettlement = "settlement"
)

// RateLimitRules derives per-group rules from configuration. Writes get the
// configured limit; reads get twice that; settlement events, which fan out
// into several ledger commits, get half.
func RateLimitRules(cfg config.RateLimitConfig) map[string]RateLimitRule {
	half := cfg.Limit / 2
	if half < 1 {
		half = 1
	}
	return map[string]RateLimitRule{
		GroupRead:       {Limit: cfg.Limit * 2, Window: cfg.Window},
		GroupWrite:      {Limit: cfg.Limit, Window: cfg.Window},
		GroupSettlement: {Limit: half, Window: cfg.Window},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store failures let the request through.
func RateLimiter(store RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + group

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}
