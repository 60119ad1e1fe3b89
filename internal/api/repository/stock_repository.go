package repository

import (
	"context"
	"time"

	"equity-portfolio-tracker/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	FindAll(ctx context.Context) ([]entity.Stock, error)
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindByInstrumentCode(ctx context.Context, code string) (*entity.Stock, error)
	UpdateDRP(ctx context.Context, id uint, drp bool) error
	UpdateMarket(ctx context.Context, id uint, marketOrIndex, marketSuffix, yahooSymbol string) error
	UpdatePrice(ctx context.Context, id uint, price decimal.Decimal, at time.Time) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *stockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("instrument_code").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) FindByInstrumentCode(ctx context.Context, code string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).Where("instrument_code = ?", code).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) UpdateDRP(ctx context.Context, id uint, drp bool) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", id).
		Update("drp", drp).Error
}

func (r *stockRepository) UpdateMarket(ctx context.Context, id uint, marketOrIndex, marketSuffix, yahooSymbol string) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"market_or_index": marketOrIndex,
			"market_suffix":   marketSuffix,
			"yahoo_symbol":    yahooSymbol,
		}).Error
}

func (r *stockRepository) UpdatePrice(ctx context.Context, id uint, price decimal.Decimal, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price": price,
			"last_updated":  at,
		}).Error
}
