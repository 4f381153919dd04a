package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/utils"
	"github.com/google/uuid"
)

// authService verifies stored credentials and issues JWT access tokens.
type authService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	jwtCfg   utils.JWTConfig
	now      func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtCfg utils.JWTConfig) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks the password against the stored bcrypt hash. Unknown emails and wrong
// passwords produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*portssvc.LoginResult, error) {
	logger := s.GetLogger(ctx)
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationFailedError("Email and password are required.")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login failed: unknown email")
			return nil, apperrors.NewUnauthorizedError("Invalid credentials")
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login failed: password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}

	token, expiresAt, err := utils.GenerateJWT(s.jwtCfg, user.UserID, user.Email, roles, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to issue access token", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &portssvc.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// EnsureBootstrapUser is idempotent: an existing email is left untouched.
func (s *authService) EnsureBootstrapUser(ctx context.Context, email, password string, roles []domain.Role) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return apperrors.NewValidationFailedError("bootstrap user needs an email and a password")
	}
	if len(roles) == 0 {
		return apperrors.NewValidationFailedError("bootstrap user needs at least one role")
	}

	_, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		s.LogDebug(ctx, "Bootstrap user already present", slog.String("email", email))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap user: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Another instance created it between the lookup and the insert.
			return nil
		}
		return fmt.Errorf("failed to save bootstrap user: %w", err)
	}

	s.LogInfo(ctx, "Bootstrap user created", slog.String("user_id", user.UserID), slog.Any("roles", roles))
	return nil
}
