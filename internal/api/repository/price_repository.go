package repository

import (
	"context"
	"fmt"

	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/pkg/common"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PriceRepository resolves a stock's current price: the redis cache written by
// the price feed worker is consulted first, then the last price persisted on
// the stock row. An invalid NullDecimal means no price is known anywhere.
type PriceRepository interface {
	GetCurrentPrice(ctx context.Context, stock *entity.Stock) (decimal.NullDecimal, error)
}

type priceRepository struct {
	redisClient *redis.Client
}

func NewPriceRepository(redisClient *redis.Client) PriceRepository {
	return &priceRepository{redisClient: redisClient}
}

func (r *priceRepository) GetCurrentPrice(ctx context.Context, stock *entity.Stock) (decimal.NullDecimal, error) {
	if r.redisClient != nil {
		key := fmt.Sprintf(common.RedisKeyCurrentPrice, stock.YahooSymbol)
		val, err := r.redisClient.Get(ctx, key).Result()
		if err == nil {
			price, perr := decimal.NewFromString(val)
			if perr == nil {
				return decimal.NewNullDecimal(price), nil
			}
		} else if err != redis.Nil {
			return decimal.NullDecimal{}, err
		}
	}
	return stock.CurrentPrice, nil
}
