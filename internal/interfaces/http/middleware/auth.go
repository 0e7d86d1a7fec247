// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
)

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Validate access token
		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store cashier information in context
		c.Set("cashier_id", claims.CashierID)
		c.Set("cashier_code", claims.Code)
		c.Set("cashier_role", claims.Role)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// ManagerMiddleware ensures the cashier has the manager role
func ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("cashier_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if role.(string) != "manager" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCashierIDFromContext extracts cashier ID from gin context
func GetCashierIDFromContext(c *gin.Context) (uint, bool) {
	cashierID, exists := c.Get("cashier_id")
	if !exists {
		return 0, false
	}
	id, ok := cashierID.(uint)
	return id, ok
}

// GetRoleFromContext extracts the cashier role from gin context
func GetRoleFromContext(c *gin.Context) string {
	role, exists := c.Get("cashier_role")
	if !exists {
		return ""
	}
	value, _ := role.(string)
	return value
}
