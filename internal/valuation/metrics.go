package valuation

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// buildSnapshot combines the lot ledger, the dividend totals and the current
// price into the final metrics record. A missing price degrades the snapshot
// (null market-value fields, MissingPrice warning) rather than failing it.
func buildSnapshot(led *ledger, cashDividends, drpShares, totalInvested decimal.Decimal, price decimal.NullDecimal) Snapshot {
	snap := Snapshot{
		TotalSharesOwned:   led.sharesHeld(),
		CurrentCostBasis:   led.costBasis(),
		RealisedPL:         led.realised,
		CashDividendsTotal: cashDividends,
		DRPSharesTotal:     drpShares,
		OpenLots:           led.lots,
		Warnings:           led.warnings,
	}

	if price.Valid {
		marketValue := snap.TotalSharesOwned.Mul(price.Decimal)
		snap.MarketValue = decimal.NewNullDecimal(marketValue)
		snap.DRPValue = decimal.NewNullDecimal(drpShares.Mul(price.Decimal))
		unrealised := marketValue.Sub(snap.CurrentCostBasis)
		snap.TotalReturn = unrealised.Add(snap.RealisedPL).Add(cashDividends)
	} else {
		snap.Warnings = append(snap.Warnings, Warning{
			Kind:    WarningMissingPrice,
			Message: "no current price available; market value fields omitted",
		})
		snap.TotalReturn = snap.RealisedPL.Add(cashDividends)
	}

	snap.TotalReturnPct = percentOf(snap.TotalReturn, snap.CurrentCostBasis)
	snap.CumulativeReturnPct = percentOf(snap.TotalReturn, totalInvested)
	return snap
}

// percentOf is numerator/denominator*100 with a defined zero when the
// denominator is not positive. A zero cost basis is a normal state (fully
// sold position), not a division error.
func percentOf(numerator, denominator decimal.Decimal) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Mul(hundred)
}

// PortfolioTotals aggregates per-stock snapshots at the portfolio level.
type PortfolioTotals struct {
	MarketValue      decimal.Decimal `json:"market_value"`
	CurrentCostBasis decimal.Decimal `json:"current_cost_basis"`
	RealisedPL       decimal.Decimal `json:"realised_pl"`
	TotalReturn      decimal.Decimal `json:"total_return"`
	TotalReturnPct   decimal.Decimal `json:"total_return_pct"`
	Flagged          int             `json:"flagged"`
}

// AggregatePortfolio sums market value, cost basis and return across stock
// snapshots. Stocks whose computation raised warnings still contribute what
// they could compute and are counted in Flagged.
func AggregatePortfolio(snapshots map[string]Snapshot) PortfolioTotals {
	totals := PortfolioTotals{
		MarketValue:      decimal.Zero,
		CurrentCostBasis: decimal.Zero,
		RealisedPL:       decimal.Zero,
		TotalReturn:      decimal.Zero,
	}
	for _, snap := range snapshots {
		if snap.MarketValue.Valid {
			totals.MarketValue = totals.MarketValue.Add(snap.MarketValue.Decimal)
		}
		totals.CurrentCostBasis = totals.CurrentCostBasis.Add(snap.CurrentCostBasis)
		totals.RealisedPL = totals.RealisedPL.Add(snap.RealisedPL)
		totals.TotalReturn = totals.TotalReturn.Add(snap.TotalReturn)
		if snap.Flagged() {
			totals.Flagged++
		}
	}
	totals.TotalReturnPct = percentOf(totals.TotalReturn, totals.CurrentCostBasis)
	return totals
}
