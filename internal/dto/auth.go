package dto

import (
	"time"

	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
)

// LoginRequest defines the credentials for a login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
}

// ToLoginResponse converts a login result to its response form.
func ToLoginResponse(res *portssvc.LoginResult) LoginResponse {
	roles := make([]string, len(res.User.Roles))
	for i, r := range res.User.Roles {
		roles[i] = string(r)
	}
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Email:     res.User.Email,
		Roles:     roles,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
