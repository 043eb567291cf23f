package shared

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todos/internal/core/port"
)

type cachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

// ResponseCache caches GET responses per user behind a CacheRepository
// backend (in-process or Redis). Any successful mutation invalidates the
// cached entries for its path prefix, so a user never reads their own
// stale list after a write.
type ResponseCache struct {
	backend port.CacheRepository
	configs map[string]CacheConfig
	logger  *zap.Logger
	metrics *AppMetrics
}

func NewResponseCache(backend port.CacheRepository, logger *zap.Logger, metrics *AppMetrics, configs map[string]CacheConfig) *ResponseCache {
	if configs == nil {
		configs = GetDefaultConfig().CacheConfigs
	}

	return &ResponseCache{
		backend: backend,
		configs: configs,
		logger:  logger,
		metrics: metrics,
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		if c.Request.Method != http.MethodGet {
			c.Next()
			rc.invalidateAfterWrite(c, path)
			return
		}

		config, exists := rc.configs[path]

		if !exists || !config.Enabled {
			c.Next()
			return
		}

		key := rc.cacheKey(c, path)

		if data, found, err := rc.backend.Get(c.Request.Context(), key); err == nil && found {
			var cached cachedResponse

			if err := json.Unmarshal(data, &cached); err == nil && time.Since(cached.Timestamp) < config.TTL {
				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(c.Request.Context(), path)
				}

				for header, values := range cached.Headers {
					for _, value := range values {
						c.Header(header, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))
				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}

		entry := cachedResponse{
			StatusCode: c.Writer.Status(),
			Headers:    map[string][]string{"Content-Type": {c.Writer.Header().Get("Content-Type")}},
			Body:       recorder.body.Bytes(),
			Timestamp:  time.Now(),
		}

		data, err := json.Marshal(entry)

		if err != nil {
			return
		}

		if err := rc.backend.Set(c.Request.Context(), key, data, config.TTL); err != nil && rc.logger != nil {
			rc.logger.Debug("Failed to store cached response", zap.Error(err))
		}
	}
}

// invalidateAfterWrite drops cached entries for the mutated resource.
// Runs after c.Next(), only for successful non-GET requests.
func (rc *ResponseCache) invalidateAfterWrite(c *gin.Context, path string) {
	if c.Writer.Status() >= http.StatusBadRequest {
		return
	}

	prefix := "response:" + rootSegment(path)

	if err := rc.backend.DeleteByPrefix(c.Request.Context(), prefix); err != nil && rc.logger != nil {
		rc.logger.Debug("Failed to invalidate cache", zap.Error(err), zap.String("prefix", prefix))
	}
}

// cacheKey runs before authentication, so the caller is identified by a
// digest of the Authorization header rather than the decoded user id.
func (rc *ResponseCache) cacheKey(c *gin.Context, path string) string {
	caller := c.GetHeader("Authorization")
	raw := c.Request.URL.RawQuery

	return fmt.Sprintf("response:%s:%x", rootSegment(path), md5.Sum([]byte(caller+"|"+raw)))
}

func rootSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")

	if idx := strings.Index(trimmed, "/"); idx > 0 {
		trimmed = trimmed[:idx]
	}

	return "/" + trimmed
}
