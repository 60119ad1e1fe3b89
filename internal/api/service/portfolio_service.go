package service

import (
	"context"
	"fmt"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/repository"
	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/pkg/logger"
)

// PortfolioService manages portfolios and their stock membership.
type PortfolioService interface {
	Create(ctx context.Context, req *dto.CreatePortfolioRequest) (*entity.Portfolio, error)
	List(ctx context.Context) ([]entity.Portfolio, error)
	Delete(ctx context.Context, id uint) error
	AddStock(ctx context.Context, portfolioID, stockID uint) error
	RemoveStock(ctx context.Context, portfolioID, stockID uint) error
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(portfolioRepo repository.PortfolioRepository, stockRepo repository.StockRepository, logger *logger.Logger) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		stockRepo:     stockRepo,
		logger:        logger,
	}
}

type portfolioService struct {
	portfolioRepo repository.PortfolioRepository
	stockRepo     repository.StockRepository
	logger        *logger.Logger
}

func (s *portfolioService) Create(ctx context.Context, req *dto.CreatePortfolioRequest) (*entity.Portfolio, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("portfolio name is required")
	}
	portfolio := &entity.Portfolio{Name: req.Name}
	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to store portfolio: %w", err)
	}
	return portfolio, nil
}

func (s *portfolioService) List(ctx context.Context) ([]entity.Portfolio, error) {
	return s.portfolioRepo.FindAll(ctx)
}

func (s *portfolioService) Delete(ctx context.Context, id uint) error {
	return s.portfolioRepo.Delete(ctx, id)
}

func (s *portfolioService) AddStock(ctx context.Context, portfolioID, stockID uint) error {
	if _, err := s.portfolioRepo.FindByID(ctx, portfolioID); err != nil {
		return err
	}
	if _, err := s.stockRepo.FindByID(ctx, stockID); err != nil {
		return err
	}
	return s.portfolioRepo.AddStock(ctx, portfolioID, stockID)
}

func (s *portfolioService) RemoveStock(ctx context.Context, portfolioID, stockID uint) error {
	return s.portfolioRepo.RemoveStock(ctx, portfolioID, stockID)
}
