package middleware

import (
	"strings"

	"github.com/austcse/carnival-backend/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security-related HTTP headers to all
// responses. The API serves JSON only, so nothing may frame or embed it.
func SecurityHeadersMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	production := cfg.Environment == config.EnvProduction
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-site")

		// Swagger UI needs scripts and styles; everything else is data.
		if !strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		// HSTS only in production to avoid pinning localhost to https.
		if production {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
