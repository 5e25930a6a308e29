package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/mocks"
	"github.com/phrazzld/taskdeck-api/internal/service/auth"
)

// testVerifier matches the mock store's fake hashing scheme.
type testVerifier struct{}

func (testVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == "hashed:"+password {
		return nil
	}
	return errors.New("hash mismatch")
}

// testJWTService issues a fixed token.
type testJWTService struct{}

func (testJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	return "test-token", nil
}

func (testJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func newAuthHandlerFixture() (*AuthHandler, *mocks.MockUserStore) {
	userStore := mocks.NewMockUserStore()
	svc := auth.NewService(userStore, testJWTService{}, testVerifier{}, nil)
	return NewAuthHandler(svc, nil), userStore
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()

		w := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Name:     "New User",
			Password: "password123",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "New User", resp.Name)
		assert.Equal(t, "new@example.com", resp.Email)

		// Registration does not log the user in.
		assert.NotContains(t, w.Body.String(), "token")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()
		payload := RegisterRequest{Email: "dup@example.com", Name: "User", Password: "password123"}

		w := postJSON(t, handler.Register, "/auth/register", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(t, handler.Register, "/auth/register", payload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failures", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()

		cases := []RegisterRequest{
			{Email: "not-an-email", Name: "User", Password: "password123"},
			{Email: "ok@example.com", Name: "", Password: "password123"},
			{Email: "ok@example.com", Name: "User", Password: "short"},
		}
		for _, c := range cases {
			w := postJSON(t, handler.Register, "/auth/register", c)
			assert.Equal(t, http.StatusBadRequest, w.Code, "payload %+v", c)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		handler.Register(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	register := func(t *testing.T, handler *AuthHandler) {
		t.Helper()
		w := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Name:     "User",
			Password: "password123",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("ok", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()
		register(t, handler)

		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "password123",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp auth.LoginResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "test-token", resp.Token)
		assert.Equal(t, "user@example.com", resp.User.Email)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()

		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong password is forbidden", func(t *testing.T) {
		handler, _ := newAuthHandlerFixture()
		register(t, handler)

		w := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "wrongpassword",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	handler, _ := newAuthHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
