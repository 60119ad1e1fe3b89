package dto

import (
	"equity-portfolio-tracker/internal/valuation"
)

// CreatePortfolioRequest creates a new named portfolio.
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// AddStockRequest links an existing stock into a portfolio.
type AddStockRequest struct {
	StockID uint `json:"stock_id"`
}

// PortfolioValuationResponse carries every stock's snapshot keyed by yahoo
// symbol plus the portfolio-level totals. Stocks whose computation raised
// warnings keep their snapshots; the caller decides how to highlight them.
type PortfolioValuationResponse struct {
	PortfolioID uint                          `json:"portfolio_id"`
	Name        string                        `json:"name"`
	Stocks      map[string]valuation.Snapshot `json:"stocks"`
	Totals      valuation.PortfolioTotals     `json:"totals"`
}
