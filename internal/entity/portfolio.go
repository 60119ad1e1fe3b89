package entity

import (
	"time"

	"gorm.io/gorm"
)

type Portfolio struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// PortfolioStock links a stock into a portfolio.
type PortfolioStock struct {
	PortfolioID uint      `gorm:"primaryKey;autoIncrement:false" json:"portfolio_id"`
	StockID     uint      `gorm:"primaryKey;autoIncrement:false" json:"stock_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PortfolioStock) TableName() string {
	return "portfolio_stocks"
}
