// internal/domain/cashier/service.go
package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials hides whether the code or the PIN was wrong
	ErrInvalidCredentials = errors.New("invalid cashier code or pin")
	// ErrCashierNotFound is returned for unknown or deactivated cashiers
	ErrCashierNotFound = errors.New("cashier not found")
)

// Service handles cashier sign-in
type Service struct {
	db              *gorm.DB
	config          *config.Config
	jwtManager      *auth.JWTManager
	passwordManager *auth.PasswordManager
}

// NewService creates a new cashier service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		jwtManager:      auth.NewJWTManager(cfg),
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// LoginRequest represents cashier login data
type LoginRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	PIN  string `json:"pin" binding:"required,min=4,max=8"`
}

// LoginResponse represents a successful sign-in
type LoginResponse struct {
	Cashier     *Cashier `json:"cashier"`
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
}

// Login verifies the PIN and issues an access token for the shift
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var cashier Cashier
	result := s.db.WithContext(ctx).Where("code = ? AND is_active = ?", req.Code, true).First(&cashier)
	if result.Error != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPIN(req.PIN, cashier.PINHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(cashier.ID, cashier.Code, string(cashier.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&cashier).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	cashier.LastLoginAt = &now

	return &LoginResponse{
		Cashier:     &cashier,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetByID retrieves an active cashier
func (s *Service) GetByID(ctx context.Context, id uint) (*Cashier, error) {
	var cashier Cashier
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&cashier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCashierNotFound
		}
		return nil, fmt.Errorf("failed to load cashier: %w", err)
	}
	return &cashier, nil
}
