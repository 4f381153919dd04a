package middleware

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey        = contextKey("logger")
	principalKey        = contextKey("principal")
	correlationIDCtxKey = contextKey("correlationID")
)

// GetPrincipalFromContext retrieves the authenticated principal set by AuthMiddleware.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	return GetPrincipalFromCtx(c.Request.Context())
}

// GetPrincipalFromCtx retrieves the authenticated principal from a standard context.
func GetPrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
