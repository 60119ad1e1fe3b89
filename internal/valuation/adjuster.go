package valuation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateSplits checks a stock's split set before it is applied: every ratio
// must be positive and no two splits may share a date.
func ValidateSplits(splits []Split) error {
	seen := make(map[string]struct{}, len(splits))
	for _, s := range splits {
		if !s.Ratio.IsPositive() {
			return fmt.Errorf("%w: ratio %s on %s must be positive", ErrInvalidSplit, s.Ratio, s.Date.Format("2006-01-02"))
		}
		day := s.Date.Format("2006-01-02")
		if _, ok := seen[day]; ok {
			return fmt.Errorf("%w: duplicate split date %s", ErrInvalidSplit, day)
		}
		seen[day] = struct{}{}
	}
	return nil
}

// sortSplits returns the splits ordered ascending by date.
func sortSplits(splits []Split) []Split {
	sorted := make([]Split, len(splits))
	copy(sorted, splits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// adjustmentFactor is the cumulative ratio product of every split strictly
// later than the given date. A split dated exactly on the date does not
// apply: the transaction happened at pre-split terms that day.
func adjustmentFactor(sorted []Split, date time.Time) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for _, s := range sorted {
		if s.Date.After(date) {
			factor = factor.Mul(s.Ratio)
		}
	}
	return factor
}

// AdjustTransactions recomputes every transaction's adjusted quantity and
// price from its original values against the full split set. Starting from
// the originals makes the pass idempotent: re-running it after a split is
// added, edited or removed can never compound onto already-adjusted values.
func AdjustTransactions(txs []Transaction, splits []Split) ([]Transaction, error) {
	if err := ValidateSplits(splits); err != nil {
		return nil, err
	}
	sorted := sortSplits(splits)

	adjusted := make([]Transaction, len(txs))
	for i, tx := range txs {
		factor := adjustmentFactor(sorted, tx.Date)
		tx.Quantity = tx.OriginalQuantity.Mul(factor)
		tx.Price = tx.OriginalPrice.Div(factor)
		adjusted[i] = tx
	}
	return adjusted, nil
}

// AdjustDividends applies the same rescaling to DRP issues: a split after an
// issue multiplies the issued shares and divides the reinvestment price,
// otherwise lot conservation breaks the moment a DRP stock splits. Cash
// amounts are per share actually held at the event date and need no
// adjustment.
func AdjustDividends(divs []DividendEvent, splits []Split) ([]DividendEvent, error) {
	if err := ValidateSplits(splits); err != nil {
		return nil, err
	}
	sorted := sortSplits(splits)

	adjusted := make([]DividendEvent, len(divs))
	for i, ev := range divs {
		if ev.Reinvested {
			factor := adjustmentFactor(sorted, ev.Date)
			ev.DRPShares = ev.DRPShares.Mul(factor)
			ev.ReinvestmentPrice = ev.ReinvestmentPrice.Div(factor)
		}
		adjusted[i] = ev
	}
	return adjusted, nil
}
