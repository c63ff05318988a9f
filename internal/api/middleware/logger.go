package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/millops/internal/metrics"
)

// Logger returns a gin middleware for logging requests and recording
// request metrics
func Logger(collector *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		collector.IncrementCounter(metrics.CounterHTTPRequests)
		if statusCode >= 400 {
			collector.IncrementCounter(metrics.CounterHTTPRequestErrors)
		}

		entry := log.Info()
		if statusCode >= 500 {
			entry = log.Error()
		} else if statusCode >= 400 {
			entry = log.Warn()
		}

		entry.
			Int("status", statusCode).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Msg("Request processed")
	}
}
