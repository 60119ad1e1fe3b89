package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestComputePosition_SplitThenSell(t *testing.T) {
	// Buy 100 @ $10 on day 1, 2-for-1 split on day 5, sell 100 @ $8 on day
	// 10. The buy adjusts to 200 @ $5; the sell realises 100 x (8-5) = 300
	// and 100 shares stay open at $5.
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(10), "100", "8"),
		},
		Splits:       []Split{{ID: 1, Date: day(5), Ratio: dec("2")}},
		CurrentPrice: price("8"),
	})
	require.NoError(t, err)

	assert.Empty(t, snap.Warnings)
	assert.True(t, snap.RealisedPL.Equal(dec("300")), "realised: %s", snap.RealisedPL)
	assert.True(t, snap.TotalSharesOwned.Equal(dec("100")))
	require.Len(t, snap.OpenLots, 1)
	assert.True(t, snap.OpenLots[0].QuantityRemaining.Equal(dec("100")))
	assert.True(t, snap.OpenLots[0].UnitCost.Equal(dec("5")))
	assert.True(t, snap.CurrentCostBasis.Equal(dec("500")))
	require.True(t, snap.MarketValue.Valid)
	assert.True(t, snap.MarketValue.Decimal.Equal(dec("800")))
	// (800-500) + 300 + 0 = 600
	assert.True(t, snap.TotalReturn.Equal(dec("600")), "total return: %s", snap.TotalReturn)
}

func TestComputePosition_DRPInterleavedChronologically(t *testing.T) {
	// A DRP issue dated between two ordinary buys must enter the lot
	// sequence at its date, so a later sell consumes it in FIFO order.
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(2), "10", "20"),
			buy(2, day(5), "10", "24"),
			sell(3, day(6), "13", "25"),
		},
		Dividends: []DividendEvent{
			{ID: 1, Date: day(4), DRPShares: dec("5"), ReinvestmentPrice: dec("22"), Reinvested: true},
		},
		CurrentPrice: price("25"),
	})
	require.NoError(t, err)

	assert.Empty(t, snap.Warnings)
	// Sell consumes the day-2 lot (10 x 5 = 50) then 3 of the day-4 DRP lot
	// (3 x 3 = 9), never the day-5 buy.
	assert.True(t, snap.RealisedPL.Equal(dec("59")), "realised: %s", snap.RealisedPL)
	require.Len(t, snap.OpenLots, 2)
	assert.True(t, snap.OpenLots[0].FromDRP)
	assert.True(t, snap.OpenLots[0].QuantityRemaining.Equal(dec("2")))
	assert.True(t, snap.OpenLots[1].QuantityRemaining.Equal(dec("10")))
	assert.True(t, snap.DRPSharesTotal.Equal(dec("5")))
	require.True(t, snap.DRPValue.Valid)
	assert.True(t, snap.DRPValue.Decimal.Equal(dec("125")))
}

func TestComputePosition_CashDividendUsesSharesHeldAtDate(t *testing.T) {
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(5), "60", "12"),
		},
		Dividends: []DividendEvent{
			// After the sell only 40 shares remain: 40 x 0.5 = 20.
			{ID: 1, Date: day(6), AmountPerShare: dec("0.5")},
		},
		CurrentPrice: price("12"),
	})
	require.NoError(t, err)

	assert.Empty(t, snap.Warnings)
	assert.True(t, snap.CashDividendsTotal.Equal(dec("20")), "cash: %s", snap.CashDividendsTotal)
	assert.True(t, snap.TotalSharesOwned.Equal(dec("40")))
}

func TestComputePosition_DividendBeforeFirstTransaction(t *testing.T) {
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{buy(1, day(5), "10", "10")},
		Dividends: []DividendEvent{
			{ID: 1, Date: day(2), AmountPerShare: dec("1")},
		},
		CurrentPrice: price("10"),
	})
	require.NoError(t, err)

	assert.True(t, snap.CashDividendsTotal.IsZero())
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, WarningInconsistentHistory, snap.Warnings[0].Kind)
}

func TestComputePosition_SplitWithNoTransactions(t *testing.T) {
	snap, err := ComputePosition(Input{
		Splits:       []Split{{ID: 1, Date: day(5), Ratio: dec("2")}},
		CurrentPrice: price("10"),
	})
	require.NoError(t, err)

	require.NotEmpty(t, snap.Warnings)
	assert.Equal(t, WarningInconsistentHistory, snap.Warnings[0].Kind)
	assert.True(t, snap.TotalSharesOwned.IsZero())
}

func TestComputePosition_InvalidSplitFailsFast(t *testing.T) {
	_, err := ComputePosition(Input{
		Transactions: []Transaction{buy(1, day(1), "100", "10")},
		Splits:       []Split{{ID: 1, Date: day(5), Ratio: dec("-1")}},
		CurrentPrice: price("10"),
	})
	assert.ErrorIs(t, err, ErrInvalidSplit)
}

func TestComputePosition_MissingPriceDegrades(t *testing.T) {
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(5), "40", "12"),
		},
	})
	require.NoError(t, err)

	assert.False(t, snap.MarketValue.Valid)
	assert.False(t, snap.DRPValue.Valid)
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, WarningMissingPrice, snap.Warnings[0].Kind)
	// Realised P/L and dividends still report without a price.
	assert.True(t, snap.RealisedPL.Equal(dec("80")))
	assert.True(t, snap.TotalReturn.Equal(dec("80")))
}

func TestComputePosition_ZeroCostBasisGuard(t *testing.T) {
	// Fully sold position: cost basis is zero and the percentages must be a
	// defined zero, not a division error.
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(5), "100", "12"),
		},
		CurrentPrice: price("12"),
	})
	require.NoError(t, err)

	assert.True(t, snap.CurrentCostBasis.IsZero())
	assert.True(t, snap.TotalReturnPct.IsZero())
	// Capital was committed, so the cumulative percentage still reports:
	// 200 / 1000 * 100 = 20.
	assert.True(t, snap.CumulativeReturnPct.Equal(dec("20")), "cumulative: %s", snap.CumulativeReturnPct)
}

func TestComputePosition_CumulativeVsTotalReturnPct(t *testing.T) {
	// total_return_pct is measured against money still in the position,
	// cumulative_return_pct against all capital ever committed.
	snap, err := ComputePosition(Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(5), "50", "10"),
		},
		CurrentPrice: price("11"),
	})
	require.NoError(t, err)

	// 50 shares @ 10 remain; market value 550; total return 50.
	assert.True(t, snap.TotalReturn.Equal(dec("50")))
	assert.True(t, snap.TotalReturnPct.Equal(dec("10")), "total pct: %s", snap.TotalReturnPct)
	assert.True(t, snap.CumulativeReturnPct.Equal(dec("5")), "cumulative pct: %s", snap.CumulativeReturnPct)
}

func TestComputePosition_AsOfRestrictsAllStreams(t *testing.T) {
	in := Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(20), "100", "8"),
		},
		Splits: []Split{{ID: 1, Date: day(15), Ratio: dec("2")}},
		Dividends: []DividendEvent{
			{ID: 1, Date: day(18), AmountPerShare: dec("1")},
		},
		CurrentPrice: price("10"),
	}

	// Valued at day 10, neither the split, the dividend nor the sell have
	// happened yet: the position is the raw 100 @ $10.
	in.AsOf = day(10)
	snap, err := ComputePosition(in)
	require.NoError(t, err)

	assert.Empty(t, snap.Warnings)
	assert.True(t, snap.TotalSharesOwned.Equal(dec("100")), "shares: %s", snap.TotalSharesOwned)
	assert.True(t, snap.CurrentCostBasis.Equal(dec("1000")))
	assert.True(t, snap.CashDividendsTotal.IsZero())
	assert.True(t, snap.RealisedPL.IsZero())
}

func TestComputePosition_RetroactiveSplitRecompute(t *testing.T) {
	// The same history valued with and without a late-discovered split:
	// recomputing from originals absorbs the correction with no stale state.
	base := Input{
		Transactions: []Transaction{
			buy(1, day(1), "100", "10"),
			sell(2, day(10), "100", "8"),
		},
		CurrentPrice: price("8"),
	}

	before, err := ComputePosition(base)
	require.NoError(t, err)
	// Without the split the sell empties the position.
	assert.True(t, before.TotalSharesOwned.IsZero())

	base.Splits = []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}
	after, err := ComputePosition(base)
	require.NoError(t, err)
	assert.True(t, after.TotalSharesOwned.Equal(dec("100")))
	assert.True(t, after.RealisedPL.Equal(dec("300")))
}

func TestAggregatePortfolio(t *testing.T) {
	a, err := ComputePosition(Input{
		Transactions: []Transaction{buy(1, day(1), "100", "10")},
		CurrentPrice: price("12"),
	})
	require.NoError(t, err)
	b, err := ComputePosition(Input{
		Transactions: []Transaction{buy(1, day(1), "50", "20")},
	})
	require.NoError(t, err)

	totals := AggregatePortfolio(map[string]Snapshot{"AAA.AX": a, "BBB.AX": b})

	// b has no price: it contributes cost basis but no market value and is
	// counted as flagged.
	assert.True(t, totals.MarketValue.Equal(dec("1200")))
	assert.True(t, totals.CurrentCostBasis.Equal(dec("2000")))
	assert.True(t, totals.TotalReturn.Equal(dec("200")))
	assert.True(t, totals.TotalReturnPct.Equal(dec("10")))
	assert.Equal(t, 1, totals.Flagged)
}

func TestAggregatePortfolio_ZeroCostBasis(t *testing.T) {
	totals := AggregatePortfolio(map[string]Snapshot{})
	assert.True(t, totals.TotalReturnPct.IsZero())
}
