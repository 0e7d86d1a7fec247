// internal/interfaces/http/middleware/security.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
)

// SecurityHeaders adds security headers to responses
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	hsts := !cfg.IsDevelopment()

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")

		// Receipts are opened inline by the till, everything else is JSON
		if strings.HasSuffix(c.FullPath(), "/receipt") {
			c.Header("Content-Security-Policy", "default-src 'none'; object-src 'self'; frame-ancestors 'self'")
			c.Header("X-Frame-Options", "SAMEORIGIN")
		} else {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		// Cart and receipt payloads are per-cashier
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")

		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		if cfg.App.Name != "" {
			c.Header("Server", cfg.App.Name)
		}

		c.Next()
	}
}
