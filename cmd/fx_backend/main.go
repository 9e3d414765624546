package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vendorbridge/currency_engine_app/internal/adapters/cache"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/database/pgsql"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/memory"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/notify"
	"github.com/vendorbridge/currency_engine_app/internal/adapters/ratesource"
	"github.com/vendorbridge/currency_engine_app/internal/core/domain"
	portsrepo "github.com/vendorbridge/currency_engine_app/internal/core/ports/repositories"
	"github.com/vendorbridge/currency_engine_app/internal/core/services"
	"github.com/vendorbridge/currency_engine_app/internal/handlers"
	"github.com/vendorbridge/currency_engine_app/internal/infrastructure/metrics"
	"github.com/vendorbridge/currency_engine_app/internal/middleware"
	"github.com/vendorbridge/currency_engine_app/pkg/config"
	"github.com/vendorbridge/currency_engine_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	settings, err := buildSettings(cfg)
	if err != nil {
		logger.Error("Invalid automation settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateStore := pgsql.NewPgxRateStore(dbPool)
	provider := ratesource.NewHTTPProvider(cfg.RateProviderName, cfg.RateProviderURL, cfg.RateProviderTimeout)

	var conversionHistory portsrepo.ConversionHistoryStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		conversionHistory = cache.NewRedisConversionHistory(redisClient, cfg.ConversionHistoryLimit)
		logger.Info("Using Redis conversion history", slog.String("addr", cfg.RedisAddr))
	} else {
		conversionHistory = memory.NewConversionHistory(cfg.ConversionHistoryLimit)
	}

	var publisher portsrepo.NotificationPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Using Kafka notification publisher", slog.String("topic", cfg.KafkaNotificationTopic))
	} else {
		publisher = notify.NewNoopPublisher()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	automationMetrics := metrics.NewAutomationMetrics(registry)

	container := services.NewServiceContainer(
		rateStore,
		provider,
		conversionHistory,
		memory.NewUpdateHistory(cfg.UpdateHistoryLimit),
		memory.NewNotificationStore(cfg.NotificationLimit),
		publisher,
		automationMetrics,
		services.ContainerConfig{
			BaseCurrency:   cfg.BaseCurrency,
			RoundingPlaces: cfg.ConversionRoundingPlace,
			Settings:       settings,
		},
	)

	ticker := services.NewUpdateTicker(container.Automation, cfg.SchedulerTickInterval)
	go ticker.Start(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, container, registry)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
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

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildSettings assembles the initial automation settings document from
// configuration.
func buildSettings(cfg *config.Config) (domain.AutomationSettings, error) {
	alertThreshold, err := decimal.NewFromString(cfg.AlertThresholdPercent)
	if err != nil {
		return domain.AutomationSettings{}, err
	}
	emergencyThreshold, err := decimal.NewFromString(cfg.EmergencyThresholdPercent)
	if err != nil {
		return domain.AutomationSettings{}, err
	}

	return domain.AutomationSettings{
		EnableAutomaticUpdates:    true,
		UpdateFrequency:           domain.FrequencyHourly,
		AlertThreshold:            alertThreshold,
		MaxRetries:                cfg.MaxRetries,
		RetryDelay:                cfg.RetryDelay,
		EnableNotifications:       true,
		NotificationRecipients:    cfg.NotificationRecipients,
		BusinessHours:             domain.BusinessHours{Start: "09:00", End: "17:00", Timezone: "UTC"},
		EmergencyContactThreshold: emergencyThreshold,

		EstimatedScheduledDuration: 5 * time.Minute,
		EstimatedManualDuration:    3 * time.Minute,
	}, nil
}
