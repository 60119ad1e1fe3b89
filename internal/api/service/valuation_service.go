package service

import (
	"context"
	"fmt"
	"time"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/repository"
	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/internal/valuation"
	"equity-portfolio-tracker/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// ValuationService computes position snapshots and portfolio valuations. The
// engine itself is a pure function; this service feeds it from the event
// store and memoizes current snapshots until the stock's history changes.
type ValuationService interface {
	ComputePosition(ctx context.Context, stockID uint, asOf *time.Time) (*valuation.Snapshot, error)
	ComputePortfolio(ctx context.Context, portfolioID uint) (*dto.PortfolioValuationResponse, error)
	Invalidate(stockID uint)
}

// NewValuationService creates a new valuation service. snapshotTTL bounds how
// long a memoized current snapshot may be served before recomputation.
func NewValuationService(
	stockRepo repository.StockRepository,
	portfolioRepo repository.PortfolioRepository,
	txRepo repository.TransactionRepository,
	splitRepo repository.StockSplitRepository,
	dividendRepo repository.DividendEventRepository,
	priceRepo repository.PriceRepository,
	logger *logger.Logger,
	snapshotTTL, cleanupInterval time.Duration,
) ValuationService {
	return &valuationService{
		stockRepo:     stockRepo,
		portfolioRepo: portfolioRepo,
		txRepo:        txRepo,
		splitRepo:     splitRepo,
		dividendRepo:  dividendRepo,
		priceRepo:     priceRepo,
		logger:        logger,
		snapshots:     cache.New(snapshotTTL, cleanupInterval),
	}
}

type valuationService struct {
	stockRepo     repository.StockRepository
	portfolioRepo repository.PortfolioRepository
	txRepo        repository.TransactionRepository
	splitRepo     repository.StockSplitRepository
	dividendRepo  repository.DividendEventRepository
	priceRepo     repository.PriceRepository
	logger        *logger.Logger
	snapshots     *cache.Cache
}

// ComputePosition recomputes the stock's position from its full history. Only
// "as of now" snapshots are memoized; historical valuations are cheap and
// rarely repeated.
func (s *valuationService) ComputePosition(ctx context.Context, stockID uint, asOf *time.Time) (*valuation.Snapshot, error) {
	cacheKey := fmt.Sprintf("snapshot:%d", stockID)
	if asOf == nil {
		if cached, ok := s.snapshots.Get(cacheKey); ok {
			snap := cached.(valuation.Snapshot)
			return &snap, nil
		}
	}

	stock, err := s.stockRepo.FindByID(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock %d: %w", stockID, err)
	}

	snap, err := s.computeForStock(ctx, stock, asOf)
	if err != nil {
		return nil, err
	}

	if asOf == nil {
		s.snapshots.SetDefault(cacheKey, *snap)
	}
	return snap, nil
}

// ComputePortfolio values every stock in the portfolio. A stock whose
// computation fails contributes a flagged, empty snapshot instead of aborting
// the rest.
func (s *valuationService) ComputePortfolio(ctx context.Context, portfolioID uint) (*dto.PortfolioValuationResponse, error) {
	portfolio, err := s.portfolioRepo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %d: %w", portfolioID, err)
	}
	stocks, err := s.portfolioRepo.GetStocks(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio stocks: %w", err)
	}

	perStock := make(map[string]valuation.Snapshot, len(stocks))
	for i := range stocks {
		stock := &stocks[i]
		snap, err := s.ComputePosition(ctx, stock.ID, nil)
		if err != nil {
			s.logger.Error("Stock valuation failed",
				logger.StringField("yahoo_symbol", stock.YahooSymbol),
				logger.ErrorField(err))
			perStock[stock.YahooSymbol] = valuation.Snapshot{
				Warnings: []valuation.Warning{{
					Kind:    valuation.WarningInconsistentHistory,
					Message: fmt.Sprintf("valuation failed: %v", err),
				}},
			}
			continue
		}
		perStock[stock.YahooSymbol] = *snap
	}

	return &dto.PortfolioValuationResponse{
		PortfolioID: portfolio.ID,
		Name:        portfolio.Name,
		Stocks:      perStock,
		Totals:      valuation.AggregatePortfolio(perStock),
	}, nil
}

// Invalidate drops the memoized snapshot for a stock. Called after any write
// to the stock's transactions, splits or dividends.
func (s *valuationService) Invalidate(stockID uint) {
	s.snapshots.Delete(fmt.Sprintf("snapshot:%d", stockID))
}

func (s *valuationService) computeForStock(ctx context.Context, stock *entity.Stock, asOf *time.Time) (*valuation.Snapshot, error) {
	txs, err := s.txRepo.FindByStockID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	splits, err := s.splitRepo.FindByStockID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	dividends, err := s.dividendRepo.FindByStockID(ctx, stock.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividend events: %w", err)
	}
	price, err := s.priceRepo.GetCurrentPrice(ctx, stock)
	if err != nil {
		s.logger.Warn("Price lookup failed, valuing without market price",
			logger.StringField("yahoo_symbol", stock.YahooSymbol),
			logger.ErrorField(err))
	}

	in := valuation.Input{
		Transactions: toValuationTransactions(txs),
		Splits:       toValuationSplits(splits),
		Dividends:    toValuationDividends(dividends),
		CurrentPrice: price,
	}
	if asOf != nil {
		in.AsOf = *asOf
	}

	snap, err := valuation.ComputePosition(in)
	if err != nil {
		return nil, err
	}
	for _, w := range snap.Warnings {
		s.logger.Warn("Valuation warning",
			logger.StringField("yahoo_symbol", stock.YahooSymbol),
			logger.StringField("kind", string(w.Kind)),
			logger.StringField("message", w.Message))
	}
	return &snap, nil
}

func toValuationTransactions(txs []entity.Transaction) []valuation.Transaction {
	out := make([]valuation.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = valuation.Transaction{
			ID:               tx.ID,
			Date:             tx.Date,
			Type:             valuation.TransactionType(tx.TransactionType),
			Quantity:         tx.Quantity,
			Price:            tx.Price,
			OriginalQuantity: tx.OriginalQuantity,
			OriginalPrice:    tx.OriginalPrice,
		}
	}
	return out
}

func toValuationSplits(splits []entity.StockSplit) []valuation.Split {
	out := make([]valuation.Split, len(splits))
	for i, s := range splits {
		out[i] = valuation.Split{ID: s.ID, Date: s.Date, Ratio: s.Ratio}
	}
	return out
}

func toValuationDividends(events []entity.DividendEvent) []valuation.DividendEvent {
	out := make([]valuation.DividendEvent, len(events))
	for i, ev := range events {
		out[i] = valuation.DividendEvent{
			ID:         ev.ID,
			Date:       ev.Date,
			Reinvested: ev.Reinvested,
		}
		if ev.AmountPerShare.Valid {
			out[i].AmountPerShare = ev.AmountPerShare.Decimal
		}
		if ev.DRPShares.Valid {
			out[i].DRPShares = ev.DRPShares.Decimal
		}
		if ev.ReinvestmentPrice.Valid {
			out[i].ReinvestmentPrice = ev.ReinvestmentPrice.Decimal
		}
	}
	return out
}
