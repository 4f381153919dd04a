package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/dto"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// RegisterAuthRoutes sets up the public authentication routes.
// Login is throttled per client IP when loginLimiter is not nil.
func RegisterAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(authService)

	auth := rg.Group("/auth")
	if loginLimiter != nil {
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
		return
	}
	auth.POST("/login", h.login)
}

// login godoc
// @Summary User login
// @Description Verifies email and password and returns a signed JWT carrying the user's roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()), slog.Any("fields", invalidFields(err)))
		respondMessage(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(result))
}
