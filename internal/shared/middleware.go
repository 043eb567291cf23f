package shared

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"todos/internal/core/port"
	ct "todos/pkg/context"
)

func MetricsMiddleware(metrics *AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

func LoggingMiddleware(logger *LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("service", logger.ServiceName),
		}

		// Request-scoped metadata set further down the chain, request id
		// included. Keys the access log already carries are skipped.
		if current, ok := ct.FromContext(c.Request.Context()); ok {
			for key, value := range current.ToMap() {
				switch key {
				case "method", "path", "user_agent", "ip_address":
					continue
				}

				fields = append(fields, zap.String(key, value))
			}
		}

		logger.Logger.Ctx(c.Request.Context()).Info("HTTP Request", fields...)

		go logger.SendToLokiSimple(c.Request.Context(), zapcore.InfoLevel, "HTTP Request", fields)
	}
}

// SetupGinMiddleware installs the ambient middleware chain: HTTPS
// enforcement, otel spans, request logging, response caching, rate
// limiting and request metrics, in that order.
func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *LokiLogger, cacheBackend port.CacheRepository, config *AppConfig) {
	httpsEnforcer := NewHTTPSEnforcer(logger.Logger.Logger)
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))

	router.Use(LoggingMiddleware(logger))

	if config.CacheEnabled && cacheBackend != nil {
		responseCache := NewResponseCache(cacheBackend, logger.Logger.Logger, metrics, config.CacheConfigs)
		router.Use(responseCache.CacheMiddleware())
	}

	if config.RateLimitEnabled {
		rateLimiter := NewRateLimiter(logger.Logger.Logger, metrics, config.RateLimitConfigs)
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	router.Use(MetricsMiddleware(metrics))
}
