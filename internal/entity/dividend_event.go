package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendEvent is either a cash dividend (AmountPerShare set, Reinvested
// false) or a DRP issue (DRPShares and ReinvestmentPrice set, Reinvested true).
type DividendEvent struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	StockID           uint                `gorm:"index;not null" json:"stock_id"`
	Date              time.Time           `gorm:"not null" json:"date"`
	AmountPerShare    decimal.NullDecimal `gorm:"type:numeric" json:"amount_per_share"`
	DRPShares         decimal.NullDecimal `gorm:"type:numeric" json:"drp_shares"`
	ReinvestmentPrice decimal.NullDecimal `gorm:"type:numeric" json:"reinvestment_price"`
	Reinvested        bool                `gorm:"not null;default:false" json:"reinvested"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (DividendEvent) TableName() string {
	return "dividend_events"
}
