package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "POS Backend"},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "C042", "cashier")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.CashierID)
	assert.Equal(t, "C042", claims.Code)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "cashier:42", claims.Subject)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"

	token, err := NewJWTManager(other).GenerateAccessToken(1, "C001", "cashier")
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig()).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute

	token, err := NewJWTManager(cfg).GenerateAccessToken(1, "C001", "cashier")
	require.NoError(t, err)

	_, err = NewJWTManager(cfg).ValidateAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	cfg := testConfig()
	claims := &Claims{
		CashierID: 1,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	_, err = NewJWTManager(cfg).ValidateAccessToken(token)
	assert.ErrorContains(t, err, "expected access")
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordManager_HashAndVerify(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPIN("4821")
	require.NoError(t, err)

	assert.NoError(t, manager.VerifyPIN("4821", hash))
	assert.Error(t, manager.VerifyPIN("4822", hash))
}

func TestPasswordManager_ValidatePIN(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	tests := []struct {
		pin     string
		wantErr bool
	}{
		{pin: "4821", wantErr: false},
		{pin: "90210455", wantErr: false},
		{pin: "482", wantErr: true},
		{pin: "482193011", wantErr: true},
		{pin: "48a1", wantErr: true},
		{pin: "7777", wantErr: true},
		{pin: "1234", wantErr: true},
		{pin: "6543", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := manager.ValidatePIN(tt.pin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
