package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buy(id uint, date time.Time, qty, price string) Transaction {
	return Transaction{
		ID:               id,
		Date:             date,
		Type:             TypeBuy,
		Quantity:         dec(qty),
		Price:            dec(price),
		OriginalQuantity: dec(qty),
		OriginalPrice:    dec(price),
	}
}

func sell(id uint, date time.Time, qty, price string) Transaction {
	return Transaction{
		ID:               id,
		Date:             date,
		Type:             TypeSell,
		Quantity:         dec(qty).Neg(),
		Price:            dec(price),
		OriginalQuantity: dec(qty).Neg(),
		OriginalPrice:    dec(price),
	}
}

func TestAdjustTransactions_SplitAfterTransaction(t *testing.T) {
	txs := []Transaction{buy(1, day(1), "100", "10")}
	splits := []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}

	adjusted, err := AdjustTransactions(txs, splits)
	require.NoError(t, err)

	assert.True(t, adjusted[0].Quantity.Equal(dec("200")), "quantity: %s", adjusted[0].Quantity)
	assert.True(t, adjusted[0].Price.Equal(dec("5")), "price: %s", adjusted[0].Price)
	// Originals stay untouched.
	assert.True(t, adjusted[0].OriginalQuantity.Equal(dec("100")))
	assert.True(t, adjusted[0].OriginalPrice.Equal(dec("10")))
}

func TestAdjustTransactions_SplitBeforeTransactionDoesNotApply(t *testing.T) {
	txs := []Transaction{buy(1, day(10), "100", "10")}
	splits := []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}

	adjusted, err := AdjustTransactions(txs, splits)
	require.NoError(t, err)

	assert.True(t, adjusted[0].Quantity.Equal(dec("100")))
	assert.True(t, adjusted[0].Price.Equal(dec("10")))
}

func TestAdjustTransactions_SplitOnTransactionDateDoesNotApply(t *testing.T) {
	// A split dated exactly on the transaction date is treated as not
	// applying: the trade happened at pre-split terms that day.
	txs := []Transaction{buy(1, day(5), "100", "10")}
	splits := []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}

	adjusted, err := AdjustTransactions(txs, splits)
	require.NoError(t, err)

	assert.True(t, adjusted[0].Quantity.Equal(dec("100")))
	assert.True(t, adjusted[0].Price.Equal(dec("10")))
}

func TestAdjustTransactions_MultipleSplitsCompound(t *testing.T) {
	txs := []Transaction{buy(1, day(1), "10", "120")}
	// Unordered on purpose: the adjuster must sort before applying.
	splits := []Split{
		{ID: 2, Date: day(20), Ratio: dec("3")},
		{ID: 1, Date: day(10), Ratio: dec("2")},
	}

	adjusted, err := AdjustTransactions(txs, splits)
	require.NoError(t, err)

	assert.True(t, adjusted[0].Quantity.Equal(dec("60")), "quantity: %s", adjusted[0].Quantity)
	assert.True(t, adjusted[0].Price.Equal(dec("20")), "price: %s", adjusted[0].Price)
}

func TestAdjustTransactions_Idempotent(t *testing.T) {
	txs := []Transaction{
		buy(1, day(1), "100", "10"),
		sell(2, day(8), "40", "12"),
	}
	splits := []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}

	once, err := AdjustTransactions(txs, splits)
	require.NoError(t, err)
	twice, err := AdjustTransactions(once, splits)
	require.NoError(t, err)

	for i := range once {
		assert.True(t, once[i].Quantity.Equal(twice[i].Quantity), "tx %d quantity double-adjusted", i)
		assert.True(t, once[i].Price.Equal(twice[i].Price), "tx %d price double-adjusted", i)
	}
}

func TestValidateSplits_NonPositiveRatio(t *testing.T) {
	err := ValidateSplits([]Split{{Date: day(5), Ratio: dec("0")}})
	assert.ErrorIs(t, err, ErrInvalidSplit)

	err = ValidateSplits([]Split{{Date: day(5), Ratio: dec("-2")}})
	assert.ErrorIs(t, err, ErrInvalidSplit)
}

func TestValidateSplits_DuplicateDate(t *testing.T) {
	err := ValidateSplits([]Split{
		{Date: day(5), Ratio: dec("2")},
		{Date: day(5), Ratio: dec("3")},
	})
	assert.ErrorIs(t, err, ErrInvalidSplit)
}

func TestAdjustDividends_DRPIssueRescaled(t *testing.T) {
	divs := []DividendEvent{
		{ID: 1, Date: day(2), DRPShares: dec("5"), ReinvestmentPrice: dec("22"), Reinvested: true},
		{ID: 2, Date: day(2), AmountPerShare: dec("0.5")},
	}
	splits := []Split{{ID: 1, Date: day(5), Ratio: dec("2")}}

	adjusted, err := AdjustDividends(divs, splits)
	require.NoError(t, err)

	assert.True(t, adjusted[0].DRPShares.Equal(dec("10")))
	assert.True(t, adjusted[0].ReinvestmentPrice.Equal(dec("11")))
	// Cash amounts are per share held on the day and stay as entered.
	assert.True(t, adjusted[1].AmountPerShare.Equal(dec("0.5")))
}
