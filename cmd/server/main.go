// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressly/goose/v3"

	"github.com/medstock/backend-go/internal/ai"
	"github.com/medstock/backend-go/internal/api"
	"github.com/medstock/backend-go/internal/cache"
	"github.com/medstock/backend-go/internal/config"
	"github.com/medstock/backend-go/internal/report"
	"github.com/medstock/backend-go/internal/repository/postgres"
	"github.com/medstock/backend-go/internal/service"
	"github.com/medstock/backend-go/internal/stockhealth"
	"github.com/medstock/backend-go/internal/storage"
	"github.com/medstock/backend-go/migrations"
	"github.com/medstock/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logger.Log.Info().Msg("Migrations applied")

	ledgerRepo := postgres.NewLedgerRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)

	healthCache, err := cache.NewHealthCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		healthCache = cache.NewNoopHealthCache()
	}

	calc := stockhealth.NewCalculator(stockhealth.Config{
		WindowDays:       cfg.Health.WindowDays,
		CriticalBelow:    cfg.Health.CriticalBelow,
		WarningThrough:   cfg.Health.WarningThrough,
		SafetyFactor:     cfg.Health.SafetyFactor,
		AlertCap:         cfg.Health.AlertCap,
		ReorderCap:       cfg.Health.ReorderCap,
		StockHealthCap:   cfg.Health.StockHealthCap,
		LowStockChartCap: cfg.Health.LowStockChartCap,
	})

	inventoryService := service.NewInventoryService(ledgerRepo, catalogRepo)
	analyticsService := service.NewAnalyticsService(ledgerRepo, catalogRepo, calc, healthCache)

	services := &api.Services{
		Inventory: inventoryService,
		Analytics: analyticsService,
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		registry := ai.NewToolRegistry()
		ai.RegisterInventoryTools(registry, analyticsService, inventoryService)
		services.Agent = ai.NewAgent(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTurns, registry)
		logger.Log.Info().Str("model", cfg.AI.Model).Msg("AI assistant enabled")
	}

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		minioClient, err := storage.NewMinioClient(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		cancel()
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, reports will not be archived")
		} else {
			store = minioClient
		}
	}
	services.Reports = report.NewService(analyticsService, store)

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func runMigrations(db *postgres.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB.DB, ".")
}
