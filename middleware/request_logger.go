package middleware

import (
	"time"

	"github.com/austcse/carnival-backend/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with method, path, status and duration.
// Request and response bodies are never logged.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.GetLogger()
		fields := []interface{}{
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if c.FullPath() == "" {
			fields[5] = c.Request.URL.Path
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Errorw("Request completed", fields...)
		case c.Writer.Status() >= 400:
			log.Warnw("Request completed", fields...)
		default:
			log.Infow("Request completed", fields...)
		}
	}
}
