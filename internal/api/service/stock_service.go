package service

import (
	"context"
	"fmt"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/repository"
	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/pkg/logger"
)

// StockService manages the stock registry: creation, market assignment and
// the DRP flag. The Yahoo symbol is always derived from the instrument code
// plus the market's suffix.
type StockService interface {
	Create(ctx context.Context, req *dto.CreateStockRequest) (*entity.Stock, error)
	List(ctx context.Context) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (*entity.Stock, error)
	UpdateDRP(ctx context.Context, id uint, drp bool) (*entity.Stock, error)
	UpdateMarket(ctx context.Context, id uint, marketOrIndex string) (*entity.Stock, error)
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo repository.StockRepository, marketCodeRepo repository.MarketCodeRepository, logger *logger.Logger) StockService {
	return &stockService{
		stockRepo:      stockRepo,
		marketCodeRepo: marketCodeRepo,
		logger:         logger,
	}
}

type stockService struct {
	stockRepo      repository.StockRepository
	marketCodeRepo repository.MarketCodeRepository
	logger         *logger.Logger
}

func (s *stockService) Create(ctx context.Context, req *dto.CreateStockRequest) (*entity.Stock, error) {
	if req.InstrumentCode == "" {
		return nil, fmt.Errorf("instrument_code is required")
	}

	suffix := ""
	if req.MarketOrIndex != "" {
		var err error
		suffix, err = s.marketCodeRepo.FindSuffix(ctx, req.MarketOrIndex)
		if err != nil {
			return nil, fmt.Errorf("unknown market %q: %w", req.MarketOrIndex, err)
		}
	}

	stock := &entity.Stock{
		YahooSymbol:        req.InstrumentCode + suffix,
		InstrumentCode:     req.InstrumentCode,
		Name:               req.Name,
		MarketOrIndex:      req.MarketOrIndex,
		MarketSuffix:       suffix,
		VerificationStatus: entity.VerificationStatusUnverified,
		DRP:                req.DRP,
	}
	if err := s.stockRepo.Create(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to store stock: %w", err)
	}
	return stock, nil
}

func (s *stockService) List(ctx context.Context) ([]entity.Stock, error) {
	return s.stockRepo.FindAll(ctx)
}

func (s *stockService) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	return s.stockRepo.FindByID(ctx, id)
}

func (s *stockService) UpdateDRP(ctx context.Context, id uint, drp bool) (*entity.Stock, error) {
	if err := s.stockRepo.UpdateDRP(ctx, id, drp); err != nil {
		return nil, err
	}
	s.logger.Info("Stock DRP status updated",
		logger.IntField("stock_id", int(id)),
		logger.Field("drp", drp))
	return s.stockRepo.FindByID(ctx, id)
}

func (s *stockService) UpdateMarket(ctx context.Context, id uint, marketOrIndex string) (*entity.Stock, error) {
	stock, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	suffix, err := s.marketCodeRepo.FindSuffix(ctx, marketOrIndex)
	if err != nil {
		return nil, fmt.Errorf("unknown market %q: %w", marketOrIndex, err)
	}
	yahooSymbol := stock.InstrumentCode + suffix
	if err := s.stockRepo.UpdateMarket(ctx, id, marketOrIndex, suffix, yahooSymbol); err != nil {
		return nil, err
	}
	return s.stockRepo.FindByID(ctx, id)
}
