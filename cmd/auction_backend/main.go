package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/reverse_auction_app/internal/core/ports/repositories"
	"github.com/SscSPs/reverse_auction_app/internal/core/services"
	"github.com/SscSPs/reverse_auction_app/internal/handlers"
	"github.com/SscSPs/reverse_auction_app/internal/middleware"
	"github.com/SscSPs/reverse_auction_app/internal/notifications"
	"github.com/SscSPs/reverse_auction_app/internal/platform/config"
	rediscache "github.com/SscSPs/reverse_auction_app/internal/repositories/cache/redis"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/reverse_auction_app/internal/repositories/memory"
	"github.com/SscSPs/reverse_auction_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Reverse Auction Backend API
// @version 1.0
// @description Bid ranking and outbid notification engine for freight and goods exchanges.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rankCache := newRankCache(cfg, logger)

	var repos repositories.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = memory.NewRepositoryProvider(rankCache)
	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established.")

		if err := runMigrations(cfg, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool, rankCache)
	default:
		logger.Error("Unsupported storage driver", slog.String("driver", cfg.StorageDriver))
		os.Exit(1)
	}

	dispatcher, closer, err := notifications.NewDispatcher(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize notification dispatcher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()
	logger.Info("Notification dispatcher ready", slog.String("provider", cfg.NotifyProvider))

	serviceContainer := services.NewServiceContainer(cfg, repos, dispatcher)

	submitLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, middleware.RateLimit(submitLimiter))

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRankCache connects to redis when REDIS_URL is set. Rankings are recomputed on
// every read otherwise.
func newRankCache(cfg *config.Config, logger *slog.Logger) repositories.RankCache {
	if cfg.RedisURL == "" {
		return memory.NopRankCache{}
	}
	cache, err := rediscache.NewRankCache(cfg.RedisURL, cfg.RankCacheTTL)
	if err != nil {
		logger.Error("Invalid REDIS_URL, rank cache disabled", slog.String("error", err.Error()))
		return memory.NopRankCache{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis not reachable yet, rank cache will retry per request", slog.String("error", err.Error()))
	} else {
		logger.Info("Rank cache connected", slog.Duration("ttl", cfg.RankCacheTTL))
	}
	return cache
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
