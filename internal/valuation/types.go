package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeBuy  TransactionType = "BUY"
	TypeSell TransactionType = "SELL"
)

// Transaction is the engine's view of a recorded trade. Quantity is signed
// (positive buy, negative sell). OriginalQuantity and OriginalPrice are the
// values as entered; adjustment always starts from them.
type Transaction struct {
	ID               uint
	Date             time.Time
	Type             TransactionType
	Quantity         decimal.Decimal
	Price            decimal.Decimal
	OriginalQuantity decimal.Decimal
	OriginalPrice    decimal.Decimal
}

// Split is one stock split event. Ratio is post-split shares per pre-split
// share, so quantity multiplies by Ratio and price divides by it.
type Split struct {
	ID    uint
	Date  time.Time
	Ratio decimal.Decimal
}

// DividendEvent is a cash dividend (AmountPerShare, Reinvested false) or a
// DRP issue (DRPShares at ReinvestmentPrice, Reinvested true).
type DividendEvent struct {
	ID                uint
	Date              time.Time
	AmountPerShare    decimal.Decimal
	DRPShares         decimal.Decimal
	ReinvestmentPrice decimal.Decimal
	Reinvested        bool
}

// Lot is an unconsumed slice of a buy. Sells consume lots oldest first.
type Lot struct {
	OpenDate          time.Time       `json:"open_date"`
	QuantityRemaining decimal.Decimal `json:"quantity_remaining"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	FromDRP           bool            `json:"from_drp,omitempty"`
}

// Cost returns the remaining cost basis of the lot.
func (l Lot) Cost() decimal.Decimal {
	return l.QuantityRemaining.Mul(l.UnitCost)
}

type WarningKind string

const (
	WarningOversoldPosition    WarningKind = "OVERSOLD_POSITION"
	WarningInconsistentHistory WarningKind = "INCONSISTENT_HISTORY"
	WarningMissingPrice        WarningKind = "MISSING_PRICE"
)

// Warning is a recoverable finding detected during computation. Warnings are
// attached to the snapshot instead of aborting it so one bad stock cannot
// block valuation of the rest of a portfolio.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Snapshot is the full metrics record for one stock at a point in time. It is
// recomputed from history on every call and never persisted as source of
// truth.
type Snapshot struct {
	TotalSharesOwned    decimal.Decimal     `json:"total_shares_owned"`
	CurrentCostBasis    decimal.Decimal     `json:"current_cost_basis"`
	MarketValue         decimal.NullDecimal `json:"market_value"`
	RealisedPL          decimal.Decimal     `json:"realised_pl"`
	CashDividendsTotal  decimal.Decimal     `json:"cash_dividends_total"`
	DRPSharesTotal      decimal.Decimal     `json:"drp_shares_total"`
	DRPValue            decimal.NullDecimal `json:"drp_value"`
	TotalReturn         decimal.Decimal     `json:"total_return"`
	TotalReturnPct      decimal.Decimal     `json:"total_return_pct"`
	CumulativeReturnPct decimal.Decimal     `json:"cumulative_return_pct"`
	OpenLots            []Lot               `json:"open_lots"`
	Warnings            []Warning           `json:"warnings,omitempty"`
}

// Flagged reports whether any warning was raised while computing the snapshot.
func (s Snapshot) Flagged() bool {
	return len(s.Warnings) > 0
}

// Input is the complete event history the engine computes from. CurrentPrice
// may be invalid when no price is known; AsOf restricts all three streams to
// events dated on or before it, a zero AsOf means no restriction.
type Input struct {
	Transactions []Transaction
	Splits       []Split
	Dividends    []DividendEvent
	CurrentPrice decimal.NullDecimal
	AsOf         time.Time
}
