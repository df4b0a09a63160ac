package usecase

import (
	"testing"
	"time"

	authdto "workmind-backend/internal/auth/dto"
	"workmind-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T, password string) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTAccessExpiry:      15 * time.Minute,
		OperatorPasswordHash: string(hash),
	}
}

func TestLoginSuccess(t *testing.T) {
	uc := NewAuthUsecase(testConfig(t, "correct-horse"))

	resp, err := uc.Login(&authdto.LoginRequest{Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	subject, err := uc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	uc := NewAuthUsecase(testConfig(t, "correct-horse"))

	_, err := uc.Login(&authdto.LoginRequest{Password: "battery-staple"})
	require.Error(t, err)
}

func TestLoginWithoutConfiguredHash(t *testing.T) {
	uc := NewAuthUsecase(&config.Config{JWTSecret: "test-secret"})

	_, err := uc.Login(&authdto.LoginRequest{Password: "anything"})
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	uc := NewAuthUsecase(testConfig(t, "correct-horse"))

	_, err := uc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig(t, "correct-horse")
	uc := NewAuthUsecase(cfg)

	resp, err := uc.Login(&authdto.LoginRequest{Password: "correct-horse"})
	require.NoError(t, err)

	other := NewAuthUsecase(&config.Config{JWTSecret: "different-secret", JWTAccessExpiry: cfg.JWTAccessExpiry})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}
