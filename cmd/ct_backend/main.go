package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/compliance_transfer_app/internal/adapters/kafka"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/compliance_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/compliance_transfer_app/internal/core/services"
	"github.com/SscSPs/compliance_transfer_app/internal/handlers"
	"github.com/SscSPs/compliance_transfer_app/internal/middleware"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/config"
	"github.com/SscSPs/compliance_transfer_app/internal/platform/metrics"
	platformredis "github.com/SscSPs/compliance_transfer_app/internal/platform/redis"
	"github.com/SscSPs/compliance_transfer_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/compliance_transfer_app/internal/repositories/memory"
	"github.com/SscSPs/compliance_transfer_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title Compliance Transfer API
// @version 1.0
// @description Transfer request lifecycle with risk triage, approvals and an audit trail.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	var rdb *goredis.Client
	if redisClient != nil {
		defer redisClient.Close()
		rdb = redisClient.Client
		logger.Info("Redis connected; login rate limits are shared.")
	}

	m := metrics.New()

	var publisher portssvc.AuditPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := kafka.NewAuditPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger,
			kafka.WithFailureHandler(func(error) { m.IncAuditPublishFailure() }),
		)
		if err != nil {
			return err
		}
		defer kp.Close(context.Background())
		publisher = kp
	} else {
		logger.Info("KAFKA_BROKERS not set; audit events are only stored.")
	}

	container := services.NewServiceContainer(cfg, repos, publisher, m)

	if cfg.BootstrapAdminEmail != "" {
		if err := container.Auth.EnsureBootstrapUser(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, []domain.Role{domain.RoleAdmin}); err != nil {
			return err
		}
		logger.Info("Bootstrap admin ensured", slog.String("email", cfg.BootstrapAdminEmail))
	}

	loginLimiter, err := handlers.NewLoginLimiter(cfg.LoginRateLimit, rdb)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.CorrelationIDMiddleware(),
		middleware.MetricsMiddleware(m),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader},
			ExposeHeaders:    []string{middleware.CorrelationIDHeader, "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, container, m, loginLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupRepositories opens the configured store and returns a func that releases it.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Info("Using in-memory storage")
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
