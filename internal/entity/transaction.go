package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is a single buy or sell. Quantity and Price hold the
// split-adjusted-as-of-now values and are rewritten whenever the stock's split
// history changes; OriginalQuantity and OriginalPrice keep the values as
// entered and are never touched after insert.
type Transaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	StockID          uint            `gorm:"index;not null" json:"stock_id"`
	Date             time.Time       `gorm:"not null" json:"date"`
	Quantity         decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	TransactionType  TransactionType `gorm:"not null" json:"transaction_type"`
	OriginalQuantity decimal.Decimal `gorm:"type:numeric;not null" json:"original_quantity"`
	OriginalPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"original_price"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
