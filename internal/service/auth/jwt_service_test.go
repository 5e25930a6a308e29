package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/config"
	"github.com/phrazzld/taskdeck-api/internal/domain"
)

const testSecret = "test-secret-key-thats-long-enough-for-hmac"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 15,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("jwt@example.com", "JWT User", "password123")
	require.NoError(t, err)
	return user
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 15,
	})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	user := testUser(t)

	token, err := svc.GenerateToken(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, time.Minute)
}

func TestValidateExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	user := testUser(t)

	issuedAt := time.Now().Add(-1 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, user)
	require.NoError(t, err)

	// Validate well past the lifetime plus clock skew.
	svc.timeFunc = time.Now

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	user := testUser(t)

	now := time.Now()
	svc.timeFunc = func() time.Time { return now }

	token, err := svc.GenerateToken(ctx, user)
	require.NoError(t, err)

	// One minute past expiry is still inside the two-minute skew allowance.
	svc.timeFunc = func() time.Time { return now.Add(16 * time.Minute) }

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	ctx := context.Background()
	user := testUser(t)

	signer := newTestJWTService(t)
	token, err := signer.GenerateToken(ctx, user)
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "a-completely-different-secret-key-value",
		TokenLifetimeMinutes: 15,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformedToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
