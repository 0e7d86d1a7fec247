// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

// Authenticator signs cashiers in
type Authenticator interface {
	Login(ctx context.Context, req *cashier.LoginRequest) (*cashier.LoginResponse, error)
	GetByID(ctx context.Context, id uint) (*cashier.Cashier, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	cashiers Authenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cashiers Authenticator) *AuthHandler {
	return &AuthHandler{
		cashiers: cashiers,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req cashier.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.cashiers.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, cashier.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}
		respondError(c, err, "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    response,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	cashierID, ok := middleware.GetCashierIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	profile, err := h.cashiers.GetByID(c.Request.Context(), cashierID)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}
