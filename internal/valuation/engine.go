package valuation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// timelineEvent interleaves transactions and dividend events into one
// chronological stream. A dividend dated the same day as a transaction is
// processed after it.
type timelineEvent struct {
	tx  *Transaction
	div *DividendEvent
}

// ComputePosition derives the full position snapshot for one stock from its
// complete event history. It is a pure function of its input: no state is
// kept between calls, so a retroactive correction (a late-discovered split, a
// backdated transaction) only ever means re-running it. The only error it
// returns is ErrInvalidSplit; everything recoverable is attached to the
// snapshot as warnings.
func ComputePosition(in Input) (Snapshot, error) {
	txs, splits, divs := restrictToAsOf(in)

	txs, err := AdjustTransactions(txs, splits)
	if err != nil {
		return Snapshot{}, err
	}
	divs, err = AdjustDividends(divs, splits)
	if err != nil {
		return Snapshot{}, err
	}

	led := newLedger()
	if len(splits) > 0 && len(txs) == 0 {
		led.warnings = append(led.warnings, Warning{
			Kind:    WarningInconsistentHistory,
			Message: fmt.Sprintf("%d split(s) recorded for a stock with no transactions", len(splits)),
		})
	}

	cashDividends := decimal.Zero
	drpShares := decimal.Zero
	totalInvested := decimal.Zero
	firstTrade := firstTransactionDate(txs)

	for _, ev := range mergeTimeline(txs, divs) {
		switch {
		case ev.tx != nil:
			tx := ev.tx
			if tx.Type == TypeSell {
				led.sell(tx.Date, tx.Quantity.Abs(), tx.Price)
				continue
			}
			led.buy(tx.Date, tx.Quantity.Abs(), tx.Price, false)
			totalInvested = totalInvested.Add(tx.Quantity.Abs().Mul(tx.Price))

		case ev.div != nil:
			div := ev.div
			if firstTrade == nil || div.Date.Before(*firstTrade) {
				led.warnings = append(led.warnings, Warning{
					Kind: WarningInconsistentHistory,
					Message: fmt.Sprintf("dividend event on %s predates the first transaction",
						div.Date.Format("2006-01-02")),
				})
				continue
			}
			if div.Reinvested {
				led.buy(div.Date, div.DRPShares, div.ReinvestmentPrice, true)
				drpShares = drpShares.Add(div.DRPShares)
				totalInvested = totalInvested.Add(div.DRPShares.Mul(div.ReinvestmentPrice))
				continue
			}
			held := led.sharesHeld()
			if held.IsZero() {
				led.warnings = append(led.warnings, Warning{
					Kind: WarningInconsistentHistory,
					Message: fmt.Sprintf("cash dividend on %s paid while no shares were held",
						div.Date.Format("2006-01-02")),
				})
				continue
			}
			cashDividends = cashDividends.Add(div.AmountPerShare.Mul(held))
		}
	}

	return buildSnapshot(led, cashDividends, drpShares, totalInvested, in.CurrentPrice), nil
}

// restrictToAsOf drops events dated after Input.AsOf from all three streams.
// The split stream is restricted too: a historical valuation sees only splits
// that had occurred by that date, so earlier quantities are reported at their
// then-current terms.
func restrictToAsOf(in Input) ([]Transaction, []Split, []DividendEvent) {
	if in.AsOf.IsZero() {
		return in.Transactions, in.Splits, in.Dividends
	}
	var txs []Transaction
	for _, tx := range in.Transactions {
		if !tx.Date.After(in.AsOf) {
			txs = append(txs, tx)
		}
	}
	var splits []Split
	for _, s := range in.Splits {
		if !s.Date.After(in.AsOf) {
			splits = append(splits, s)
		}
	}
	var divs []DividendEvent
	for _, d := range in.Dividends {
		if !d.Date.After(in.AsOf) {
			divs = append(divs, d)
		}
	}
	return txs, splits, divs
}

// mergeTimeline interleaves transactions and dividend events by date.
// Within each kind ties are broken by id; on the same date transactions come
// before dividend events, so a DRP issue lands after that day's trades and a
// later sell draws from it in correct chronological order.
func mergeTimeline(txs []Transaction, divs []DividendEvent) []timelineEvent {
	events := make([]timelineEvent, 0, len(txs)+len(divs))

	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})
	for i := range ordered {
		events = append(events, timelineEvent{tx: &ordered[i]})
	}

	orderedDivs := make([]DividendEvent, len(divs))
	copy(orderedDivs, divs)
	sort.SliceStable(orderedDivs, func(i, j int) bool {
		if !orderedDivs[i].Date.Equal(orderedDivs[j].Date) {
			return orderedDivs[i].Date.Before(orderedDivs[j].Date)
		}
		return orderedDivs[i].ID < orderedDivs[j].ID
	})
	for i := range orderedDivs {
		events = append(events, timelineEvent{div: &orderedDivs[i]})
	}

	// Stable sort on date alone keeps the tx-before-dividend order on ties.
	sort.SliceStable(events, func(i, j int) bool {
		return eventDate(events[i]).Before(eventDate(events[j]))
	})
	return events
}

func eventDate(ev timelineEvent) time.Time {
	if ev.tx != nil {
		return ev.tx.Date
	}
	return ev.div.Date
}

func firstTransactionDate(txs []Transaction) *time.Time {
	var first *time.Time
	for i := range txs {
		if first == nil || txs[i].Date.Before(*first) {
			first = &txs[i].Date
		}
	}
	return first
}
