package dto

import (
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a buy or sell. Quantity and Price are the
// values as entered; the service derives the split-adjusted fields.
type CreateTransactionRequest struct {
	Date            string          `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TransactionType string          `json:"transaction_type"`
}

// CreateSplitRequest records a stock split.
type CreateSplitRequest struct {
	Date           string          `json:"date"`
	Ratio          decimal.Decimal `json:"ratio"`
	VerifiedSource string          `json:"verified_source"`
}

// UpdateSplitRequest edits a split's date or ratio, triggering full
// re-adjustment of the stock's transactions.
type UpdateSplitRequest struct {
	Date  string          `json:"date"`
	Ratio decimal.Decimal `json:"ratio"`
}

// CreateDividendRequest records a cash dividend or DRP issue.
type CreateDividendRequest struct {
	Date              string              `json:"date"`
	AmountPerShare    decimal.NullDecimal `json:"amount_per_share"`
	DRPShares         decimal.NullDecimal `json:"drp_shares"`
	ReinvestmentPrice decimal.NullDecimal `json:"reinvestment_price"`
	Reinvested        bool                `json:"reinvested"`
}

// BulkImportRequest loads a stock's transaction and split history in one
// shot.
type BulkImportRequest struct {
	StockID      uint                       `json:"stock_id"`
	Transactions []CreateTransactionRequest `json:"transactions"`
	Splits       []CreateSplitRequest       `json:"splits"`
}

// ImportJobResponse reports the outcome of a bulk import.
type ImportJobResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
