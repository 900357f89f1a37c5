package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/config"
	"github.com/prateekrauniyar345/voiceed-ally-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis, so the
// window survives restarts and is shared across replicas.
type RateLimiter struct {
	rdb      *redis.Client
	log      zerolog.Logger
	limit    int64
	interval time.Duration
}

// NewRateLimiter creates a RateLimiter (e.g., 30 requests per minute).
func NewRateLimiter(rdb *redis.Client, log zerolog.Logger, limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		log:      log,
		limit:    int64(limit),
		interval: interval,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Redis outages fail open: an unreachable limiter must not take auth down.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		window := time.Now().Unix() / int64(rl.interval.Seconds())
		key := config.CacheKey.AuthRateKey(c.ClientIP(), window)

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			// First hit in this window owns setting the expiry.
			rl.rdb.Expire(ctx, key, rl.interval)
		}

		if count > rl.limit {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
