package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoricalPrice caches one day of OHLCV data for a stock. AdjustedClose is
// the provider's split/dividend adjusted close; OriginalClose keeps the raw
// close so adjustment can be re-derived.
type HistoricalPrice struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	StockID        uint                `gorm:"index:idx_historical_prices_stock_date,unique;not null" json:"stock_id"`
	Date           time.Time           `gorm:"index:idx_historical_prices_stock_date,unique;not null" json:"date"`
	OpenPrice      decimal.Decimal     `gorm:"type:numeric" json:"open_price"`
	HighPrice      decimal.Decimal     `gorm:"type:numeric" json:"high_price"`
	LowPrice       decimal.Decimal     `gorm:"type:numeric" json:"low_price"`
	ClosePrice     decimal.Decimal     `gorm:"type:numeric" json:"close_price"`
	Volume         int64               `json:"volume"`
	AdjustedClose  decimal.NullDecimal `gorm:"type:numeric" json:"adjusted_close"`
	OriginalClose  decimal.NullDecimal `gorm:"type:numeric" json:"original_close"`
	SplitAdjusted  bool                `gorm:"not null;default:false" json:"split_adjusted"`
	DividendAmount decimal.NullDecimal `gorm:"type:numeric" json:"dividend_amount"`
}

func (HistoricalPrice) TableName() string {
	return "historical_prices"
}
