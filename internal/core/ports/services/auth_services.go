package services

import (
	"context"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
)

// LoginResult is returned after successful credential verification.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthSvcFacade verifies credentials and issues access tokens.
type AuthSvcFacade interface {
	// Login checks email and password and issues a signed access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// EnsureBootstrapUser creates a user with the given roles unless the email already exists.
	EnsureBootstrapUser(ctx context.Context, email, password string, roles []domain.Role) error
}
