package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equity-portfolio-tracker/internal/pricefeed/config"
	"equity-portfolio-tracker/internal/pricefeed/repository"
	"equity-portfolio-tracker/internal/pricefeed/service"
	"equity-portfolio-tracker/pkg/logger"
	"equity-portfolio-tracker/pkg/postgres"
	"equity-portfolio-tracker/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Starts the price feed worker",
	Run:   runWorker,
}

func runWorker(cmd *cobra.Command, args []string) {
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

	appLogger.Info("Starting Price Feed Worker", logger.Field("name", cfg.App.Name))

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

	priceCacheTTL, err := time.ParseDuration(cfg.PriceFeed.PriceCacheTTL)
	if err != nil {
		appLogger.Fatal("Invalid price cache TTL", logger.ErrorField(err))
	}

	stocksRepo := repository.NewStocksRepository(db.DB)
	quoteRepo := repository.NewYahooQuoteRepository(cfg, appLogger)
	storeRepo := repository.NewPriceStoreRepository(db.DB, redisClient.Client, priceCacheTTL)

	refresher := service.NewRefresherService(cfg, stocksRepo, quoteRepo, storeRepo, appLogger)
	if err := refresher.Start(ctx); err != nil {
		appLogger.Fatal("Price refresher failed", logger.ErrorField(err))
	}

	appLogger.Info("Price feed worker exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "pricefeed"}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-pricefeed.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing pricefeed CLI: %s\n", err)
		os.Exit(1)
	}
}
