package repository

import (
	"context"
	"fmt"
	"time"

	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/pkg/common"
	"equity-portfolio-tracker/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocksRepository lists the stocks the worker refreshes.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
}

type stocksRepository struct {
	db *gorm.DB
}

func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

func (s *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// PriceStoreRepository persists a fetched price to every read location: the
// stock row, the cross-process redis cache and the historical price table.
type PriceStoreRepository interface {
	StorePrice(ctx context.Context, stock *entity.Stock, price decimal.Decimal, at time.Time) error
}

type priceStoreRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewPriceStoreRepository(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration) PriceStoreRepository {
	return &priceStoreRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (r *priceStoreRepository) StorePrice(ctx context.Context, stock *entity.Stock, price decimal.Decimal, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entity.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]interface{}{
			"current_price": price,
			"last_updated":  at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update stock price: %w", err)
	}

	day := utils.TruncateToDay(at.UTC())
	record := entity.HistoricalPrice{
		StockID:       stock.ID,
		Date:          day,
		ClosePrice:    price,
		OriginalClose: decimal.NewNullDecimal(price),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"close_price", "original_close"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert historical price: %w", err)
	}

	key := fmt.Sprintf(common.RedisKeyCurrentPrice, stock.YahooSymbol)
	if err := r.redisClient.Set(ctx, key, price.String(), r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache price: %w", err)
	}
	return nil
}
