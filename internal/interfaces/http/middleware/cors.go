// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
)

// Till clients send their own request ids and read receipt and export filenames
var (
	tillRequestHeaders = []string{requestIDHeader}
	tillExposedHeaders = []string{requestIDHeader, "Content-Disposition"}
)

// CORS returns a middleware that lets configured till frontends call the API
func CORS(cfg *config.Config) gin.HandlerFunc {
	methods := strings.Join(cfg.Security.CORSAllowedMethods, ", ")
	headers := strings.Join(mergeHeaders(cfg.Security.CORSAllowedHeaders, tillRequestHeaders), ", ")
	exposed := strings.Join(tillExposedHeaders, ", ")

	return func(c *gin.Context) {
		c.Header("Vary", "Origin")

		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !isOriginAllowed(origin, cfg.Security.CORSAllowedOrigins) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Expose-Headers", exposed)

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		// *.example.com matches https://till.example.com but not https://badexample.com
		if strings.HasPrefix(allowed, "*.") && strings.HasSuffix(origin, strings.TrimPrefix(allowed, "*")) {
			return true
		}
	}
	return false
}

func mergeHeaders(configured, required []string) []string {
	out := append([]string(nil), configured...)
	for _, header := range required {
		found := false
		for _, existing := range out {
			if strings.EqualFold(existing, header) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, header)
		}
	}
	return out
}
