package repository

import (
	"context"

	"equity-portfolio-tracker/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *entity.Portfolio) error
	FindAll(ctx context.Context) ([]entity.Portfolio, error)
	FindByID(ctx context.Context, id uint) (*entity.Portfolio, error)
	Delete(ctx context.Context, id uint) error
	AddStock(ctx context.Context, portfolioID, stockID uint) error
	RemoveStock(ctx context.Context, portfolioID, stockID uint) error
	GetStocks(ctx context.Context, portfolioID uint) ([]entity.Stock, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *entity.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *portfolioRepository) FindAll(ctx context.Context) ([]entity.Portfolio, error) {
	var portfolios []entity.Portfolio
	if err := r.db.WithContext(ctx).Order("name").Find(&portfolios).Error; err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (r *portfolioRepository) FindByID(ctx context.Context, id uint) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	if err := r.db.WithContext(ctx).First(&portfolio, id).Error; err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("portfolio_id = ?", id).Delete(&entity.PortfolioStock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Portfolio{}, id).Error
	})
}

func (r *portfolioRepository) AddStock(ctx context.Context, portfolioID, stockID uint) error {
	link := entity.PortfolioStock{PortfolioID: portfolioID, StockID: stockID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *portfolioRepository) RemoveStock(ctx context.Context, portfolioID, stockID uint) error {
	return r.db.WithContext(ctx).
		Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		Delete(&entity.PortfolioStock{}).Error
}

func (r *portfolioRepository) GetStocks(ctx context.Context, portfolioID uint) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Joins("JOIN portfolio_stocks ps ON ps.stock_id = stocks.id").
		Where("ps.portfolio_id = ?", portfolioID).
		Order("stocks.instrument_code").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}
