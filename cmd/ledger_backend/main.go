package main

import (
	"context"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_backend/internal/core/services"
	"github.com/SscSPs/ledger_backend/internal/handlers"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/SscSPs/ledger_backend/internal/platform/config"
	"github.com/SscSPs/ledger_backend/internal/platform/metrics"
	"github.com/SscSPs/ledger_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_backend/internal/repositories/memory"
	"github.com/SscSPs/ledger_backend/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title Ledger Backend API
// @version 1.0
// @description Double-entry bookkeeping: chart of accounts, journal entries, posting and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeRepos, err := setupRepositories(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := handlers.RouterConfig{
		Logger:             logger,
		JWTSecret:          cfg.JWTSecret,
		JWTIssuer:          cfg.JWTIssuer,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	if cfg.MetricsEnabled {
		env := "development"
		if cfg.IsProduction {
			env = "production"
		}
		routerCfg.Metrics = metrics.NewLedgerMetrics(prometheus.DefaultRegisterer, metrics.Config{ServiceName: "ledger_backend", Environment: env})
		routerCfg.MetricsHandler = promhttp.Handler()
	}

	if cfg.RateLimit != "" {
		lim, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
			os.Exit(1)
		}
		routerCfg.RateLimiter = lim
	}

	svc := services.NewServiceContainer(repos, services.ContainerConfig{
		EntryNumberPrefix: cfg.EntryNumberPrefix,
		EntryNumberWidth:  cfg.EntryNumberWidth,
		Metrics:           routerCfg.Metrics,
	})

	r := handlers.NewRouter(routerCfg, svc)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRepositories builds the configured storage backend. The returned
// function releases it.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
