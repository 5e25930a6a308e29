package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/mocks"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// stubVerifier matches the mock store's fake hashing scheme.
type stubVerifier struct{}

func (stubVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errors.New("hash mismatch")
}

// stubJWTService returns a fixed token or error.
type stubJWTService struct {
	token string
	err   error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	return s.token, s.err
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return nil, ErrInvalidToken
}

func newAuthFixture() (*Service, *mocks.MockUserStore) {
	userStore := mocks.NewMockUserStore()
	svc := NewService(userStore, &stubJWTService{token: "test-token"}, stubVerifier{}, nil)
	return svc, userStore
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("returns name and email without a token", func(t *testing.T) {
		svc, userStore := newAuthFixture()

		summary, err := svc.Register(ctx, "new@example.com", "New User", "password123")
		require.NoError(t, err)

		assert.Equal(t, "new@example.com", summary.Email)
		assert.Equal(t, "New User", summary.Name)
		assert.NotEmpty(t, summary.ID)

		stored, err := userStore.GetByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Empty(t, stored.Password, "plaintext must not survive registration")
		assert.NotEmpty(t, stored.HashedPassword)
	})

	t.Run("duplicate email leaves the existing record untouched", func(t *testing.T) {
		svc, userStore := newAuthFixture()

		_, err := svc.Register(ctx, "dup@example.com", "First", "password123")
		require.NoError(t, err)
		original, err := userStore.GetByEmail(ctx, "dup@example.com")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "dup@example.com", "Second", "different456")
		assert.ErrorIs(t, err, store.ErrEmailExists)

		stored, err := userStore.GetByEmail(ctx, "dup@example.com")
		require.NoError(t, err)
		assert.Equal(t, "First", stored.Name)
		assert.Equal(t, original.HashedPassword, stored.HashedPassword)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Register(ctx, "bad-email", "User", "password123")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Register(ctx, "ok@example.com", "User", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc *Service) {
		t.Helper()
		_, err := svc.Register(ctx, "user@example.com", "User", "password123")
		require.NoError(t, err)
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		svc, _ := newAuthFixture()
		register(t, svc)

		result, err := svc.Login(ctx, "user@example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, "test-token", result.Token)
		assert.Equal(t, "user@example.com", result.User.Email)
		assert.Equal(t, "User", result.User.Name)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture()
		register(t, svc)

		_, err := svc.Login(ctx, "user@example.com", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token generation failure propagates", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		genErr := errors.New("signing failed")
		svc := NewService(userStore, &stubJWTService{err: genErr}, stubVerifier{}, nil)

		_, err := svc.Register(ctx, "user@example.com", "User", "password123")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "user@example.com", "password123")
		assert.ErrorIs(t, err, genErr)
	})
}
