package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSplit records a split with Ratio post-split shares per pre-split share
// (2.0 for a 2-for-1). Splits for a stock are unique per date.
type StockSplit struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	StockID          uint            `gorm:"index:idx_stock_splits_stock_date,unique;not null" json:"stock_id"`
	Date             time.Time       `gorm:"index:idx_stock_splits_stock_date,unique;not null" json:"date"`
	Ratio            decimal.Decimal `gorm:"type:numeric;not null" json:"ratio"`
	VerifiedSource   string          `json:"verified_source"`
	VerificationDate *time.Time      `json:"verification_date"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (StockSplit) TableName() string {
	return "stock_splits"
}
