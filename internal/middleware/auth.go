package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	"github.com/SscSPs/compliance_transfer_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT access tokens
// and stores the resulting domain.Principal in the request context.
func AuthMiddleware(jwtCfg utils.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtCfg)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		if claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
			return
		}

		principal := domain.Principal{UserID: claims.Subject}
		for _, raw := range claims.Roles {
			role, ok := domain.ParseRole(strings.TrimSpace(raw))
			if !ok {
				logger.Warn("Ignoring unknown role in token", slog.String("role", raw))
				continue
			}
			principal.Roles = append(principal.Roles, role)
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", principal.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

