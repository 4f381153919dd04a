package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	"github.com/SscSPs/compliance_transfer_app/internal/dto"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes the {"message": ...} body with the status that matches err.
// Internal failures are logged with their cause and answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	logger := middleware.GetLoggerFromContext(c)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, dto.ErrorResponse{Message: apperrors.PublicMessage(err)})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Message: message})
}

// requirePrincipal returns the caller set by AuthMiddleware, answering 401 when absent.
func requirePrincipal(c *gin.Context) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return domain.Principal{}, false
	}
	return principal, true
}

// requestIDParam reads the :id path parameter and answers 400 unless it is a UUID.
func requestIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid transfer request id.")
		return "", false
	}
	return id.String(), true
}
