package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/compliance_transfer_app/cmd/docs"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/core/services"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/config"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const loginLimiterPrefix = "ct:login"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
	loginLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api/v1")

	// Public authentication routes
	RegisterAuthRoutes(api, services.Auth, loginLimiter)

	setupAPIV1Routes(api, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the protected part of /api/v1.
func setupAPIV1Routes(api *gin.RouterGroup, cfg *config.Config, svc *portssvc.ServiceContainer) {
	v1 := api.Group("", middleware.AuthMiddleware(services.JWTConfigFrom(cfg)))

	RegisterTransferRoutes(v1, svc.Transfer, svc.Audit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// NewLoginLimiter builds the per-IP login limiter from a formatted rate such as "5-M".
// Counters live in Redis when rdb is not nil so that replicas share them.
func NewLoginLimiter(formattedRate string, rdb *goredis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, fmt.Errorf("invalid login rate %q: %w", formattedRate, err)
	}

	if rdb == nil {
		return limiter.New(memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: loginLimiterPrefix}), rate), nil
	}

	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: loginLimiterPrefix})
	if err != nil {
		return nil, fmt.Errorf("create redis limiter store: %w", err)
	}
	return limiter.New(store, rate), nil
}
