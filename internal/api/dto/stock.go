package dto

// CreateStockRequest registers a stock. The Yahoo symbol is derived from the
// instrument code and the market's suffix when a market is given.
type CreateStockRequest struct {
	InstrumentCode string `json:"instrument_code"`
	Name           string `json:"name"`
	MarketOrIndex  string `json:"market_or_index"`
	DRP            bool   `json:"drp"`
}

// UpdateDRPRequest toggles dividend reinvestment for a stock.
type UpdateDRPRequest struct {
	DRP bool `json:"drp"`
}

// UpdateMarketRequest moves a stock to another market, re-deriving its Yahoo
// symbol from the new market suffix.
type UpdateMarketRequest struct {
	MarketOrIndex string `json:"market_or_index"`
}
