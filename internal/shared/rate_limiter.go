package shared

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// RateLimiter enforces per-endpoint request budgets. Buckets live in a
// go-cache store keyed by client: IP for anonymous endpoints, user id
// for authenticated ones.
type RateLimiter struct {
	store   *cache.Cache
	configs map[string]RateLimitConfig
	logger  *zap.Logger
	metrics *AppMetrics
}

func NewRateLimiter(logger *zap.Logger, metrics *AppMetrics, configs map[string]RateLimitConfig) *RateLimiter {
	if configs == nil {
		configs = GetDefaultConfig().RateLimitConfigs
	}

	return &RateLimiter{
		store:   cache.New(5*time.Minute, 10*time.Minute),
		configs: configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		config, exists := rl.configs[path]

		if !exists {
			config = RateLimitConfig{Requests: 60, Window: time.Minute}
		}

		key := rl.clientKey(c, path)

		allowed, remaining, reset := rl.allow(key, config)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path)
			}

			if rl.logger != nil {
				rl.logger.Warn("Rate limit exceeded",
					zap.String("path", path),
					zap.String("key", key))
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, try again later",
				},
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path)
		}

		c.Next()
	}
}

func (rl *RateLimiter) clientKey(c *gin.Context, path string) string {
	if userId := c.GetInt("x-user-id"); userId != 0 {
		return fmt.Sprintf("rate:%s:user:%d", path, userId)
	}

	return fmt.Sprintf("rate:%s:ip:%s", path, c.ClientIP())
}

func (rl *RateLimiter) allow(key string, config RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	entry := rateLimitEntry{Count: 0, ResetTime: now.Add(config.Window)}

	if cached, found := rl.store.Get(key); found {
		entry = cached.(rateLimitEntry)

		if now.After(entry.ResetTime) {
			entry = rateLimitEntry{Count: 0, ResetTime: now.Add(config.Window)}
		}
	}

	entry.Count++
	rl.store.Set(key, entry, time.Until(entry.ResetTime))

	remaining := config.Requests - entry.Count

	if remaining < 0 {
		remaining = 0
	}

	return entry.Count <= config.Requests, remaining, entry.ResetTime
}
