package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/platform/logger"
	"github.com/phrazzld/taskdeck-api/internal/redact"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// UserSummary is the caller-facing projection of a user: never the password,
// never the hash.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResult carries the issued bearer token and the authenticated user.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Service implements registration and login against a UserStore.
// Logout is stateless (the client discards its token) and therefore has no
// operation here.
type Service struct {
	userStore store.UserStore
	jwtSvc    JWTService
	verifier  PasswordVerifier
	logger    *slog.Logger
}

// NewService creates an auth Service with the given dependencies.
// If logger is nil, the default logger is used.
func NewService(
	userStore store.UserStore,
	jwtSvc JWTService,
	verifier PasswordVerifier,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		userStore: userStore,
		jwtSvc:    jwtSvc,
		verifier:  verifier,
		logger:    log.With(slog.String("component", "auth_service")),
	}
}

// Register creates a new user with a hashed credential.
// Returns store.ErrEmailExists if a user with that email already exists; the
// existing record is left untouched. On success returns the new user's name
// and email, deliberately without a token: registration does not log in.
func (s *Service) Register(ctx context.Context, email, name, password string) (*UserSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// The store hashes the plaintext password and enforces email uniqueness.
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected, email already registered")
			return nil, err
		}
		log.Error("failed to create user", "error", redact.Error(err))
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID)

	return &UserSummary{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	}, nil
}

// Login authenticates the credentials and issues a time-limited bearer token.
// Returns store.ErrUserNotFound for an unknown email and ErrInvalidCredentials
// for a failed hash comparison, so the HTTP layer can map them separately.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected, unknown email")
			return nil, err
		}
		log.Error("failed to look up user for login", "error", redact.Error(err))
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected, password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtSvc.GenerateToken(ctx, user)
	if err != nil {
		log.Error("failed to generate token", "error", redact.Error(err), "user_id", user.ID)
		return nil, err
	}

	log.Info("user logged in", "user_id", user.ID)

	return &LoginResult{
		Token: token,
		User: UserSummary{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
		},
	}, nil
}
