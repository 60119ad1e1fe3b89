package service

import (
	"context"
	"time"

	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/internal/pricefeed/config"
	"equity-portfolio-tracker/internal/pricefeed/repository"
	"equity-portfolio-tracker/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefresherService drives the scheduled price refresh loop.
type RefresherService interface {
	Start(ctx context.Context) error
	RefreshAll(ctx context.Context)
	RefreshStock(ctx context.Context, stock *entity.Stock) error
}

// NewRefresherService creates the price refresh service.
func NewRefresherService(cfg *config.Config, stocksRepo repository.StocksRepository, quoteRepo repository.QuoteRepository, storeRepo repository.PriceStoreRepository, log *logger.Logger) RefresherService {
	return &refresherService{
		cfg:        cfg,
		stocksRepo: stocksRepo,
		quoteRepo:  quoteRepo,
		storeRepo:  storeRepo,
		logger:     log,
	}
}

type refresherService struct {
	cfg        *config.Config
	stocksRepo repository.StocksRepository
	quoteRepo  repository.QuoteRepository
	storeRepo  repository.PriceStoreRepository
	logger     *logger.Logger
}

// Start schedules RefreshAll on the configured cron expression and blocks
// until the context is cancelled.
func (s *refresherService) Start(ctx context.Context) error {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(s.cfg.PriceFeed.Schedule, func() {
		s.RefreshAll(ctx)
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	s.logger.Info("Price refresher started", logger.StringField("schedule", s.cfg.PriceFeed.Schedule))

	<-ctx.Done()
	s.logger.Info("Price refresher stopping")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}

// RefreshAll fetches a fresh quote for every tracked stock. The quote
// repository rate-limits requests, so one sweep can take a while on large
// watchlists.
func (s *refresherService) RefreshAll(ctx context.Context) {
	stocks, err := s.stocksRepo.GetStocks(ctx)
	if err != nil {
		s.logger.Error("Failed to list stocks for refresh", logger.ErrorField(err))
		return
	}

	refreshed := 0
	for i := range stocks {
		if ctx.Err() != nil {
			return
		}
		if err := s.RefreshStock(ctx, &stocks[i]); err != nil {
			s.logger.Error("Failed to refresh price",
				logger.StringField("symbol", stocks[i].YahooSymbol),
				logger.ErrorField(err))
			continue
		}
		refreshed++
	}

	s.logger.Info("Price refresh sweep completed",
		logger.IntField("stocks", len(stocks)),
		logger.IntField("refreshed", refreshed))
}

// RefreshStock fetches and persists the latest quote for one stock.
func (s *refresherService) RefreshStock(ctx context.Context, stock *entity.Stock) error {
	price, err := s.quoteRepo.GetQuote(ctx, stock.YahooSymbol)
	if err != nil {
		return err
	}

	if err := s.storeRepo.StorePrice(ctx, stock, price, time.Now()); err != nil {
		return err
	}

	s.logger.Debug("Price refreshed",
		logger.StringField("symbol", stock.YahooSymbol),
		logger.StringField("price", price.String()))
	return nil
}
