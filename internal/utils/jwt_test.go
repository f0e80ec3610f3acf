package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"business-app-server/internal/config"
	"business-app-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 15,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Email: "admin@ejemplo.com"}
	user.ID = "user-1"

	token, expiresAt, err := GenerateAccessToken(user, "company-1", "admin", cfg)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token, cfg.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin@ejemplo.com", claims.Email)
	require.Equal(t, "company-1", claims.TenantID)
	require.Equal(t, "admin", claims.Role)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestAccessTokenWithoutTenantOmitsClaims(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Email: "admin@ejemplo.com"}
	user.ID = "user-1"

	token, _, err := GenerateAccessToken(user, "", "", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg.JWTSecret)
	require.NoError(t, err)
	require.Empty(t, claims.TenantID)
	require.Empty(t, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{Email: "admin@ejemplo.com"}
	user.ID = "user-1"

	token, _, err := GenerateAccessToken(user, "", "", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "some-other-secret")
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testConfig().JWTSecret)
	require.Error(t, err)
}
