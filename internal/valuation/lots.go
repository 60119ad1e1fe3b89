package valuation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ledger is the running open-lot state during a timeline fold. Lots are kept
// oldest first and sells consume from the front (FIFO).
type ledger struct {
	lots     []Lot
	realised decimal.Decimal
	warnings []Warning
}

func newLedger() *ledger {
	return &ledger{realised: decimal.Zero}
}

// buy opens a new lot at the end of the sequence.
func (l *ledger) buy(date time.Time, quantity, unitCost decimal.Decimal, fromDRP bool) {
	l.lots = append(l.lots, Lot{
		OpenDate:          date,
		QuantityRemaining: quantity,
		UnitCost:          unitCost,
		FromDRP:           fromDRP,
	})
}

// sell consumes open lots oldest first, realising quantity*(sellPrice-unitCost)
// per consumed slice. If the open lots run out before the sell is filled the
// shortfall is surfaced as an OversoldPosition warning and the position never
// goes negative.
func (l *ledger) sell(date time.Time, quantity, sellPrice decimal.Decimal) {
	remaining := quantity
	for remaining.IsPositive() && len(l.lots) > 0 {
		lot := &l.lots[0]
		consumed := decimal.Min(remaining, lot.QuantityRemaining)

		l.realised = l.realised.Add(consumed.Mul(sellPrice.Sub(lot.UnitCost)))
		lot.QuantityRemaining = lot.QuantityRemaining.Sub(consumed)
		remaining = remaining.Sub(consumed)

		if lot.QuantityRemaining.IsZero() {
			l.lots = l.lots[1:]
		}
	}

	if remaining.IsPositive() {
		l.warnings = append(l.warnings, Warning{
			Kind: WarningOversoldPosition,
			Message: fmt.Sprintf("sell of %s on %s exceeds open position by %s shares",
				quantity, date.Format("2006-01-02"), remaining),
		})
	}
}

// sharesHeld is the sum of quantity remaining over open lots.
func (l *ledger) sharesHeld() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.QuantityRemaining)
	}
	return total
}

// costBasis is the sum of remaining quantity times unit cost over open lots.
func (l *ledger) costBasis() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		total = total.Add(lot.Cost())
	}
	return total
}

// TrackLots runs FIFO lot matching over a transaction sequence, ordered by
// date with ties broken by id (oldest first), and returns the final open lots
// and the accumulated realised profit or loss. The result is fully determined
// by the input sequence: re-running over the same transactions yields the same
// lot state and realised figure.
func TrackLots(txs []Transaction) ([]Lot, decimal.Decimal, []Warning) {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	led := newLedger()
	for _, tx := range ordered {
		switch tx.Type {
		case TypeSell:
			led.sell(tx.Date, tx.Quantity.Abs(), tx.Price)
		default:
			led.buy(tx.Date, tx.Quantity.Abs(), tx.Price, false)
		}
	}
	return led.lots, led.realised, led.warnings
}
