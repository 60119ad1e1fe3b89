package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equity-portfolio-tracker/internal/api/config"
	delivery "equity-portfolio-tracker/internal/api/delivery/http"
	"equity-portfolio-tracker/internal/api/repository"
	"equity-portfolio-tracker/internal/api/service"
	"equity-portfolio-tracker/pkg/logger"
	"equity-portfolio-tracker/pkg/postgres"
	"equity-portfolio-tracker/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Portfolio API", logger.Field("name", cfg.App.Name))

	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db.DB)
	portfolioRepo := repository.NewPortfolioRepository(db.DB)
	marketCodeRepo := repository.NewMarketCodeRepository(db.DB)
	txRepo := repository.NewTransactionRepository(db.DB)
	splitRepo := repository.NewStockSplitRepository(db.DB)
	dividendRepo := repository.NewDividendEventRepository(db.DB)
	importRepo := repository.NewImportJobRepository(db.DB)
	priceRepo := repository.NewPriceRepository(redisClient.Client)

	snapshotTTL, err := time.ParseDuration(cfg.Valuation.SnapshotCacheTTL)
	if err != nil {
		appLogger.Fatal("Invalid snapshot cache TTL", logger.ErrorField(err))
	}
	cleanupInterval, err := time.ParseDuration(cfg.Valuation.SnapshotCacheCleanup)
	if err != nil {
		appLogger.Fatal("Invalid snapshot cache cleanup interval", logger.ErrorField(err))
	}

	// Initialize services
	valuationSvc := service.NewValuationService(stockRepo, portfolioRepo, txRepo, splitRepo, dividendRepo, priceRepo, appLogger, snapshotTTL, cleanupInterval)
	stockSvc := service.NewStockService(stockRepo, marketCodeRepo, appLogger)
	portfolioSvc := service.NewPortfolioService(portfolioRepo, stockRepo, appLogger)
	historySvc := service.NewHistoryService(txRepo, splitRepo, dividendRepo, importRepo, valuationSvc, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	stocksGroup := apiV1.Group("/stocks")
	portfoliosGroup := apiV1.Group("/portfolios")

	stockHandler := delivery.NewStockHandler(stockSvc, valuationSvc, appLogger)
	stockHandler.RegisterRoutes(stocksGroup)

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, valuationSvc, appLogger)
	portfolioHandler.RegisterRoutes(portfoliosGroup)

	historyHandler := delivery.NewHistoryHandler(historySvc, appLogger)
	historyHandler.RegisterRoutes(stocksGroup, apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api CLI: %s\n", err)
		os.Exit(1)
	}
}
