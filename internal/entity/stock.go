package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VerificationStatus marks whether a stock's symbol has been confirmed against
// the market data provider.
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "Unverified"
	VerificationStatusVerified   VerificationStatus = "Verified"
	VerificationStatusFailed     VerificationStatus = "Failed"
)

type Stock struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	YahooSymbol        string              `gorm:"uniqueIndex;not null" json:"yahoo_symbol"`
	InstrumentCode     string              `gorm:"index;not null" json:"instrument_code"`
	Name               string              `json:"name"`
	CurrentPrice       decimal.NullDecimal `gorm:"type:numeric" json:"current_price"`
	LastUpdated        time.Time           `json:"last_updated"`
	MarketOrIndex      string              `json:"market_or_index"`
	MarketSuffix       string              `json:"market_suffix"`
	VerificationStatus VerificationStatus  `gorm:"default:Unverified" json:"verification_status"`
	DRP                bool                `gorm:"not null;default:false" json:"drp"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (Stock) TableName() string {
	return "stocks"
}

// MarketCode maps an exchange or index name to the suffix Yahoo Finance
// appends to instrument codes on that market (e.g. ASX -> ".AX").
type MarketCode struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	MarketOrIndex string `gorm:"uniqueIndex;not null" json:"market_or_index"`
	MarketSuffix  string `gorm:"not null" json:"market_suffix"`
}

func (MarketCode) TableName() string {
	return "market_codes"
}
