package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackLots_FIFOAcrossLots(t *testing.T) {
	// Buy 50 @ $20, buy 50 @ $30, sell 60 @ $25: FIFO consumes all of the
	// first lot (50 x 5 = 250) and 10 of the second (10 x -5 = -50).
	txs := []Transaction{
		buy(1, day(1), "50", "20"),
		buy(2, day(2), "50", "30"),
		sell(3, day(3), "60", "25"),
	}

	lots, realised, warnings := TrackLots(txs)

	assert.Empty(t, warnings)
	assert.True(t, realised.Equal(dec("200")), "realised: %s", realised)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].QuantityRemaining.Equal(dec("40")))
	assert.True(t, lots[0].UnitCost.Equal(dec("30")))
}

func TestTrackLots_PartialLotConsumption(t *testing.T) {
	txs := []Transaction{
		buy(1, day(1), "100", "10"),
		sell(2, day(2), "30", "15"),
		sell(3, day(3), "30", "8"),
	}

	lots, realised, warnings := TrackLots(txs)

	assert.Empty(t, warnings)
	// 30x(15-10) + 30x(8-10) = 150 - 60 = 90
	assert.True(t, realised.Equal(dec("90")), "realised: %s", realised)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].QuantityRemaining.Equal(dec("40")))
}

func TestTrackLots_OversoldPosition(t *testing.T) {
	txs := []Transaction{sell(1, day(1), "10", "15")}

	lots, realised, warnings := TrackLots(txs)

	assert.Empty(t, lots)
	assert.True(t, realised.IsZero())
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningOversoldPosition, warnings[0].Kind)
}

func TestTrackLots_OversoldConsumesWhatExists(t *testing.T) {
	txs := []Transaction{
		buy(1, day(1), "10", "10"),
		sell(2, day(2), "25", "12"),
	}

	lots, realised, warnings := TrackLots(txs)

	// The 10 held shares realise 10x2; the 15-share shortfall is surfaced,
	// never a negative lot.
	assert.Empty(t, lots)
	assert.True(t, realised.Equal(dec("20")), "realised: %s", realised)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningOversoldPosition, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, "15")
}

func TestTrackLots_TiesBrokenByID(t *testing.T) {
	// Same-day buy then sell, entered in that order: the sell must see the
	// buy's lot.
	txs := []Transaction{
		sell(2, day(1), "10", "12"),
		buy(1, day(1), "10", "10"),
	}

	lots, realised, warnings := TrackLots(txs)

	assert.Empty(t, warnings)
	assert.Empty(t, lots)
	assert.True(t, realised.Equal(dec("20")))
}

func TestTrackLots_Deterministic(t *testing.T) {
	txs := []Transaction{
		buy(1, day(1), "50", "20"),
		buy(2, day(2), "50", "30"),
		sell(3, day(3), "60", "25"),
		buy(4, day(4), "25", "22"),
		sell(5, day(6), "10", "28"),
	}

	lots1, realised1, _ := TrackLots(txs)
	lots2, realised2, _ := TrackLots(txs)

	assert.True(t, realised1.Equal(realised2))
	require.Equal(t, len(lots1), len(lots2))
	for i := range lots1 {
		assert.True(t, lots1[i].QuantityRemaining.Equal(lots2[i].QuantityRemaining))
		assert.True(t, lots1[i].UnitCost.Equal(lots2[i].UnitCost))
	}
}

func TestTrackLots_LotConservation(t *testing.T) {
	// At every prefix of the timeline, sum(quantity_remaining) equals total
	// buys minus total sells so far.
	txs := []Transaction{
		buy(1, day(1), "100", "10"),
		sell(2, day(2), "40", "12"),
		buy(3, day(3), "60", "11"),
		sell(4, day(4), "50", "9"),
		sell(5, day(5), "30", "13"),
	}

	for prefix := 1; prefix <= len(txs); prefix++ {
		lots, _, warnings := TrackLots(txs[:prefix])
		require.Empty(t, warnings, "prefix %d oversold", prefix)

		expected := decimal.Zero
		for _, tx := range txs[:prefix] {
			expected = expected.Add(tx.Quantity)
		}
		held := decimal.Zero
		for _, lot := range lots {
			held = held.Add(lot.QuantityRemaining)
		}
		assert.True(t, held.Equal(expected), "prefix %d: held %s, expected %s", prefix, held, expected)
	}
}
