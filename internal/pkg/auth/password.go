// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// PasswordManager hashes and verifies cashier PINs
type PasswordManager struct {
	config *config.Config
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		config: cfg,
	}
}

// HashPIN hashes a PIN using bcrypt
func (p *PasswordManager) HashPIN(pin string) (string, error) {
	if err := p.ValidatePIN(pin); err != nil {
		return "", fmt.Errorf("pin validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(pin), p.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPIN verifies a PIN against its hash
func (p *PasswordManager) VerifyPIN(pin, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}

// ValidatePIN checks PIN shape and rejects trivially guessable ones
func (p *PasswordManager) ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 8 {
		return fmt.Errorf("pin must be 4 to 8 digits long")
	}

	for _, char := range pin {
		if char < '0' || char > '9' {
			return fmt.Errorf("pin must contain digits only")
		}
	}

	if strings.Count(pin, pin[:1]) == len(pin) {
		return fmt.Errorf("pin cannot repeat a single digit")
	}

	if strings.Contains("0123456789", pin) || strings.Contains("9876543210", pin) {
		return fmt.Errorf("pin cannot be a sequence")
	}

	return nil
}
