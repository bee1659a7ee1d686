package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/fintra-app/fintra_backend/internal/adapters/database/pgsql"
	"github.com/fintra-app/fintra_backend/internal/adapters/ratesapi"
	"github.com/fintra-app/fintra_backend/internal/core/services"
	"github.com/fintra-app/fintra_backend/internal/handlers"
	"github.com/fintra-app/fintra_backend/internal/middleware"
	"github.com/fintra-app/fintra_backend/internal/platform/config"
	"github.com/fintra-app/fintra_backend/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	runMigrations(logger, cfg.DatabaseURL)

	// Wire repositories, the remote rate provider and the services
	repos := pgsql.NewRepositoryProvider(dbPool)

	// Seed the default currency on a fresh database
	settingsRepo := pgsql.NewPgxSettingsRepository(dbPool)
	if err := settingsRepo.EnsureDefaultCurrency(context.Background(), cfg.DefaultCurrency); err != nil {
		logger.Error("Failed to seed default currency", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider := ratesapi.NewClient(cfg.RatesAPIURL, cfg.RatesAPITimeout)
	serviceContainer := services.NewServiceContainer(cfg, repos, provider, logger)

	// Opportunistic sweep at startup: the launch analog of an app-foreground
	// hook. The sweep is idempotent, so a crash mid-way costs nothing.
	go func() {
		count, err := serviceContainer.Reconcile.ReconcilePending(context.Background())
		if err != nil {
			logger.Warn("Startup reconciliation failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Startup reconciliation finished", slog.Int64("updated", count))
	}()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, rate limiting, recovery)
	rateLimiter := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Second,
		Limit:  cfg.RateLimitPerSecond,
	})
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.RateLimit(rateLimiter),
		gin.Recovery(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations, exiting on failure.
func runMigrations(logger *slog.Logger, databaseURL string) {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		os.Exit(1)
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}
