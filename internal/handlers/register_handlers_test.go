package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/handlers"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/config"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newFullRouter(production bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		IsProduction:      production,
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTIssuer:         "ct-test",
		JWTAudience:       "ct-test-api",
		JWTExpiryDuration: time.Hour,
	}
	container := &portssvc.ServiceContainer{
		Transfer: new(MockTransferService),
		Audit:    new(MockAuditService),
		Auth:     new(MockAuthService),
	}
	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container, metrics.New(), nil)
	return r
}

func TestRegisterRoutes_PublicEndpoints(t *testing.T) {
	r := newFullRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterRoutes_TransfersRequireToken(t *testing.T) {
	r := newFullRouter(false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transfers", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Authorization header required"}`, w.Body.String())
}

func TestRegisterRoutes_NoSwaggerInProduction(t *testing.T) {
	r := newFullRouter(true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
