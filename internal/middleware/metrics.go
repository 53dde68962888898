package middleware

import (
	"time"

	"contacts_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware собирает HTTP-метрики по шаблону маршрута
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		done := metrics.TrackInFlight()
		start := time.Now()
		c.Next()
		done()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
