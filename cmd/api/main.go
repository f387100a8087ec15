package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/spin-rewards/internal/domain/port/core"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/letter"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/mission"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/slot"
	"github.com/amirhossein-jamali/spin-rewards/internal/domain/usecase/spin"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/random"
	timeProvider "github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/spin-rewards/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// rewardMetrics is the metrics port plus the pool observer used by the database manager
type rewardMetrics interface {
	coreport.Metrics
	database.PoolObserver
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	logOpts := logger.Options{
		Level:      cfg.Logger.Level,
		Production: cfg.Logger.Format == "json",
	}
	if cfg.Logger.Output != "" {
		logOpts.OutputPaths = strings.Split(cfg.Logger.Output, ",")
	}
	appLogger, err := logger.NewZapLogger(logOpts)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	if cfg.Environment == config.Production {
		warnUnsafeProductionSettings(cfg, appLogger)
	}

	tp := timeProvider.NewRealTimeProvider()

	var (
		appMetrics     rewardMetrics = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		appMetrics = metrics.NewPrometheusMetrics(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	uow, pinger, closeStore, err := openStore(startCtx, cfg, appLogger, tp, appMetrics)
	cancelStart()
	if err != nil {
		appLogger.Error("Failed to open ledger store", map[string]any{
			"driver": cfg.Database.Driver,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
	defer closeStore()

	rng := random.NewSource()
	executor := ledger.NewExecutor(uow, appLogger, tp, rng, appMetrics, ledger.RetryConfig{
		MaxRetries:    cfg.Ledger.MaxRetries,
		RetryInterval: cfg.Ledger.RetryInterval(),
		MaxInterval:   cfg.Ledger.MaxRetryInterval(),
		JitterFactor:  ledger.DefaultRetryConfig().JitterFactor,
	})

	letterLedger := letter.NewLedger(uow, executor, appLogger, tp, appMetrics)
	missionEvaluator := mission.NewEvaluator(uow, executor, appLogger, tp, appMetrics, mission.Config{
		FirstDepositSpins: cfg.Rewards.FirstDepositSpins,
		DailyLoginWindow:  cfg.Rewards.DailyLoginWindow,
	})
	spinController := spin.NewController(uow, executor, slot.NewSelector(rng), letterLedger, appLogger, tp, appMetrics)
	accountService := account.NewService(uow, appLogger)
	catalogService := catalog.NewService(uow, appLogger)

	if cfg.Seed.Enabled {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
		if err := catalogService.SeedDefaults(seedCtx, cfg.Seed.CatalogSeed()); err != nil {
			appLogger.Error("Failed to seed default catalog", map[string]any{
				"error": err.Error(),
			})
		}
		cancelSeed()
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, routes.Handlers{
		User:    handler.NewUserHandler(missionEvaluator, spinController, letterLedger, accountService, appLogger),
		Catalog: handler.NewCatalogHandler(catalogService, letterLedger, appLogger),
		Health:  handler.NewHealthHandler(pinger),
		Metrics: metricsHandler,
	}, cfg.Metrics.Path)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"driver": cfg.Database.Driver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// openStore builds the unit of work for the configured driver. The returned
// pinger is nil for the in-memory store.
func openStore(
	ctx context.Context,
	cfg *config.Config,
	appLogger coreport.Logger,
	tp coreport.TimeProvider,
	observer database.PoolObserver,
) (persistence.UnitOfWork, handler.Pinger, func(), error) {
	if cfg.Database.Driver == "memory" {
		appLogger.Warn("Using in-memory ledger store; data is lost on restart", nil)
		store := memory.NewStore(tp, appLogger, cfg.Ledger.LockTimeout())
		return memory.NewUnitOfWork(store), nil, func() {}, nil
	}

	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LockTimeout:     cfg.Ledger.LockTimeout(),
		SlowQuery:       cfg.Database.SlowQuery,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
		MonitorInterval: cfg.Database.MonitorInterval,
	}

	manager := database.NewManager(dbConfig, appLogger, tp, observer)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, nil, nil, err
	}
	if err := manager.Migrate(ctx); err != nil {
		_ = manager.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	closeFn := func() {
		if err := manager.Close(); err != nil {
			appLogger.Error("Failed to close database", map[string]any{
				"error": err.Error(),
			})
		}
	}
	return manager.CreateUnitOfWork(), manager, closeFn, nil
}

// warnUnsafeProductionSettings logs settings that are valid but risky in production
func warnUnsafeProductionSettings(cfg *config.Config, appLogger coreport.Logger) {
	var warnings []string

	if cfg.Database.Driver == "memory" {
		warnings = append(warnings, "database.driver is memory")
	}
	switch strings.ToLower(cfg.Database.SSLMode) {
	case "require", "verify-ca", "verify-full":
	default:
		if cfg.Database.Driver == "postgres" {
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca', or 'verify-full'")
		}
	}
	if cfg.Server.ReadTimeout < 5*time.Second {
		warnings = append(warnings, "server.readTimeout is too low")
	}
	if cfg.Server.WriteTimeout < 5*time.Second {
		warnings = append(warnings, "server.writeTimeout is too low")
	}
	if cfg.Seed.Enabled {
		warnings = append(warnings, "seed.enabled writes a default catalog")
	}

	if len(warnings) > 0 {
		appLogger.Warn("Potentially unsafe production configuration", map[string]any{
			"warnings": warnings,
		})
	}
}
