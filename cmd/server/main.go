package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
	docapp "github.com/budgeterp/backend/internal/application/document"
	"github.com/budgeterp/backend/internal/application/recommend"
	"github.com/budgeterp/backend/internal/domain/shared"
	"github.com/budgeterp/backend/internal/infrastructure/cache"
	"github.com/budgeterp/backend/internal/infrastructure/config"
	"github.com/budgeterp/backend/internal/infrastructure/event"
	"github.com/budgeterp/backend/internal/infrastructure/logger"
	"github.com/budgeterp/backend/internal/infrastructure/persistence"
	"github.com/budgeterp/backend/internal/infrastructure/telemetry"
	"github.com/budgeterp/backend/internal/interfaces/http/handler"
	"github.com/budgeterp/backend/internal/interfaces/http/router"
)

//	@title			Budget ERP Backend API
//	@version		1.0
//	@description	Budget-controlled purchase/sale management backend
//	@host			localhost:8080
//	@BasePath		/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Budget ERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(cfg.Database.DBName, cfg.App.Env != "production"); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run schema migration", zap.Error(err))
	}

	// Initialize repositories
	analyticRepo := persistence.NewGormAnalyticRepository(db.DB)
	ruleRepo := persistence.NewGormAutoAssignRuleRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetPeriodRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	assignmentHistory := persistence.NewGormAssignmentHistory(db.DB)

	// Idempotency store: Redis when configured, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory idempotency store", zap.Error(err))
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
		} else {
			log.Info("Using Redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
			idempotencyStore = redisStore
		}
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Recommendation chain: rules first, history second, blended
	// against the confidence threshold
	ruleMatcher := recommend.NewRuleMatcher(ruleRepo)
	historyRecommender := recommend.NewHistoryRecommender(
		assignmentHistory,
		recommend.MatchStrategy(cfg.Recommend.MatchStrategy),
		cfg.Recommend.HistoryWindowDays,
	)
	blender := recommend.NewBlender(cfg.Recommend.ConfidenceThreshold)
	recommendService := recommend.NewService(ruleMatcher, historyRecommender, blender, analyticRepo, log)

	// Application services
	analyticService := budgetapp.NewAnalyticService(analyticRepo)
	ruleService := budgetapp.NewRuleService(ruleRepo, analyticRepo)
	budgetService := budgetapp.NewBudgetService(budgetRepo, analyticRepo)
	ledgerService := budgetapp.NewLedgerService(budgetRepo, log)
	documentService := docapp.NewService(documentRepo, recommendService, ledgerService, idempotencyStore, log)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	budgetAlertHandler := budgetapp.NewBudgetAlertHandler(log)
	eventBus.Subscribe(budgetAlertHandler)
	log.Info("Event handlers registered",
		zap.Strings("budget_alert_events", budgetAlertHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	analyticService.SetEventPublisher(eventBus)
	budgetService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)
	documentService.SetEventPublisher(eventBus)

	// HTTP handlers and router
	engine := router.New(cfg, log, router.Handlers{
		Analytic:  handler.NewAnalyticHandler(analyticService),
		Rule:      handler.NewRuleHandler(ruleService),
		Budget:    handler.NewBudgetHandler(budgetService),
		Document:  handler.NewDocumentHandler(documentService),
		Recommend: handler.NewRecommendHandler(recommendService),
		System:    handler.NewSystemHandler(db),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
