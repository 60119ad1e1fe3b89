package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/internal/valuation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStockRepo struct {
	stocks map[uint]*entity.Stock
}

func (r *fakeStockRepo) Create(_ context.Context, stock *entity.Stock) error {
	if r.stocks == nil {
		r.stocks = make(map[uint]*entity.Stock)
	}
	stock.ID = uint(len(r.stocks) + 1)
	r.stocks[stock.ID] = stock
	return nil
}

func (r *fakeStockRepo) FindAll(_ context.Context) ([]entity.Stock, error) {
	var out []entity.Stock
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uint) (*entity.Stock, error) {
	s, ok := r.stocks[id]
	if !ok {
		return nil, fmt.Errorf("stock %d not found", id)
	}
	return s, nil
}

func (r *fakeStockRepo) FindByInstrumentCode(_ context.Context, code string) (*entity.Stock, error) {
	for _, s := range r.stocks {
		if s.InstrumentCode == code {
			return s, nil
		}
	}
	return nil, fmt.Errorf("stock %q not found", code)
}

func (r *fakeStockRepo) UpdateDRP(_ context.Context, id uint, drp bool) error {
	r.stocks[id].DRP = drp
	return nil
}

func (r *fakeStockRepo) UpdateMarket(_ context.Context, id uint, marketOrIndex, marketSuffix, yahooSymbol string) error {
	s := r.stocks[id]
	s.MarketOrIndex = marketOrIndex
	s.MarketSuffix = marketSuffix
	s.YahooSymbol = yahooSymbol
	return nil
}

func (r *fakeStockRepo) UpdatePrice(_ context.Context, id uint, price decimal.Decimal, at time.Time) error {
	s := r.stocks[id]
	s.CurrentPrice = decimal.NewNullDecimal(price)
	s.LastUpdated = at
	return nil
}

type fakePortfolioRepo struct {
	portfolios map[uint]*entity.Portfolio
	members    map[uint][]uint
	stockRepo  *fakeStockRepo
}

func (r *fakePortfolioRepo) Create(_ context.Context, portfolio *entity.Portfolio) error {
	if r.portfolios == nil {
		r.portfolios = make(map[uint]*entity.Portfolio)
	}
	portfolio.ID = uint(len(r.portfolios) + 1)
	r.portfolios[portfolio.ID] = portfolio
	return nil
}

func (r *fakePortfolioRepo) FindAll(_ context.Context) ([]entity.Portfolio, error) {
	var out []entity.Portfolio
	for _, p := range r.portfolios {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePortfolioRepo) FindByID(_ context.Context, id uint) (*entity.Portfolio, error) {
	p, ok := r.portfolios[id]
	if !ok {
		return nil, fmt.Errorf("portfolio %d not found", id)
	}
	return p, nil
}

func (r *fakePortfolioRepo) Delete(_ context.Context, id uint) error {
	delete(r.portfolios, id)
	return nil
}

func (r *fakePortfolioRepo) AddStock(_ context.Context, portfolioID, stockID uint) error {
	if r.members == nil {
		r.members = make(map[uint][]uint)
	}
	r.members[portfolioID] = append(r.members[portfolioID], stockID)
	return nil
}

func (r *fakePortfolioRepo) RemoveStock(_ context.Context, portfolioID, stockID uint) error {
	ids := r.members[portfolioID]
	for i, id := range ids {
		if id == stockID {
			r.members[portfolioID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePortfolioRepo) GetStocks(_ context.Context, portfolioID uint) ([]entity.Stock, error) {
	var out []entity.Stock
	for _, id := range r.members[portfolioID] {
		if s, ok := r.stockRepo.stocks[id]; ok {
			out = append(out, *s)
			continue
		}
		// Stale membership row: the stock itself no longer resolves.
		out = append(out, entity.Stock{ID: id, YahooSymbol: fmt.Sprintf("STOCK-%d", id)})
	}
	return out, nil
}

type fakePriceRepo struct {
	prices map[string]decimal.Decimal
}

func (r *fakePriceRepo) GetCurrentPrice(_ context.Context, stock *entity.Stock) (decimal.NullDecimal, error) {
	if p, ok := r.prices[stock.YahooSymbol]; ok {
		return decimal.NewNullDecimal(p), nil
	}
	return decimal.NullDecimal{}, nil
}

type valuationFixture struct {
	stockRepo     *fakeStockRepo
	portfolioRepo *fakePortfolioRepo
	txRepo        *fakeTransactionRepo
	splitRepo     *fakeSplitRepo
	dividendRepo  *fakeDividendRepo
	priceRepo     *fakePriceRepo
	svc           ValuationService
}

func newValuationFixture(t *testing.T) *valuationFixture {
	stockRepo := &fakeStockRepo{stocks: make(map[uint]*entity.Stock)}
	f := &valuationFixture{
		stockRepo:     stockRepo,
		portfolioRepo: &fakePortfolioRepo{stockRepo: stockRepo},
		txRepo:        &fakeTransactionRepo{},
		splitRepo:     &fakeSplitRepo{},
		dividendRepo:  &fakeDividendRepo{},
		priceRepo:     &fakePriceRepo{prices: make(map[string]decimal.Decimal)},
	}
	f.svc = NewValuationService(f.stockRepo, f.portfolioRepo, f.txRepo, f.splitRepo, f.dividendRepo, f.priceRepo,
		testLogger(t), time.Minute, time.Minute)
	return f
}

func (f *valuationFixture) addStock(symbol string) *entity.Stock {
	stock := &entity.Stock{YahooSymbol: symbol, InstrumentCode: symbol}
	_ = f.stockRepo.Create(context.Background(), stock)
	return stock
}

func (f *valuationFixture) addBuy(stockID uint, date string, qty, price int64) {
	d, _ := time.Parse("2006-01-02", date)
	q := decimal.NewFromInt(qty)
	p := decimal.NewFromInt(price)
	_ = f.txRepo.Create(context.Background(), &entity.Transaction{
		StockID: stockID, Date: d, TransactionType: entity.TransactionTypeBuy,
		Quantity: q, Price: p, OriginalQuantity: q, OriginalPrice: p,
	})
}

func TestComputePositionValuesAgainstCurrentPrice(t *testing.T) {
	f := newValuationFixture(t)
	stock := f.addStock("VAS.AX")
	f.addBuy(stock.ID, "2024-01-10", 10, 10)
	f.priceRepo.prices["VAS.AX"] = decimal.NewFromInt(12)

	snap, err := f.svc.ComputePosition(context.Background(), stock.ID, nil)
	require.NoError(t, err)

	assert.True(t, snap.TotalSharesOwned.Equal(decimal.NewFromInt(10)))
	assert.True(t, snap.CurrentCostBasis.Equal(decimal.NewFromInt(100)))
	require.True(t, snap.MarketValue.Valid)
	assert.True(t, snap.MarketValue.Decimal.Equal(decimal.NewFromInt(120)))
	assert.True(t, snap.TotalReturn.Equal(decimal.NewFromInt(20)))
	assert.False(t, snap.Flagged())
}

func TestComputePositionMemoizesCurrentSnapshot(t *testing.T) {
	f := newValuationFixture(t)
	stock := f.addStock("BHP.AX")
	f.addBuy(stock.ID, "2024-01-10", 10, 10)

	ctx := context.Background()
	first, err := f.svc.ComputePosition(ctx, stock.ID, nil)
	require.NoError(t, err)

	// A write behind the service's back is invisible until invalidation.
	f.addBuy(stock.ID, "2024-02-10", 10, 10)
	cached, err := f.svc.ComputePosition(ctx, stock.ID, nil)
	require.NoError(t, err)
	assert.True(t, cached.TotalSharesOwned.Equal(first.TotalSharesOwned))

	f.svc.Invalidate(stock.ID)
	fresh, err := f.svc.ComputePosition(ctx, stock.ID, nil)
	require.NoError(t, err)
	assert.True(t, fresh.TotalSharesOwned.Equal(decimal.NewFromInt(20)))
}

func TestComputePositionAsOfIsNotCached(t *testing.T) {
	f := newValuationFixture(t)
	stock := f.addStock("CSL.AX")
	f.addBuy(stock.ID, "2024-01-10", 10, 10)
	f.addBuy(stock.ID, "2024-06-10", 10, 10)

	ctx := context.Background()
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	historical, err := f.svc.ComputePosition(ctx, stock.ID, &asOf)
	require.NoError(t, err)
	assert.True(t, historical.TotalSharesOwned.Equal(decimal.NewFromInt(10)))

	current, err := f.svc.ComputePosition(ctx, stock.ID, nil)
	require.NoError(t, err)
	assert.True(t, current.TotalSharesOwned.Equal(decimal.NewFromInt(20)),
		"historical computation must not poison the current snapshot")
}

func TestComputePositionWithoutPriceDegrades(t *testing.T) {
	f := newValuationFixture(t)
	stock := f.addStock("NOPRICE.AX")
	f.addBuy(stock.ID, "2024-01-10", 10, 10)

	snap, err := f.svc.ComputePosition(context.Background(), stock.ID, nil)
	require.NoError(t, err)

	assert.False(t, snap.MarketValue.Valid)
	assert.True(t, snap.Flagged())
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, valuation.WarningMissingPrice, snap.Warnings[0].Kind)
}

func TestComputePortfolioAggregatesAndDegradesFailures(t *testing.T) {
	f := newValuationFixture(t)
	ctx := context.Background()

	good := f.addStock("VAS.AX")
	f.addBuy(good.ID, "2024-01-10", 10, 10)
	f.priceRepo.prices["VAS.AX"] = decimal.NewFromInt(12)

	portfolio := &entity.Portfolio{Name: "Core"}
	require.NoError(t, f.portfolioRepo.Create(ctx, portfolio))
	require.NoError(t, f.portfolioRepo.AddStock(ctx, portfolio.ID, good.ID))

	// Membership of a stock that no longer resolves computes to a failure.
	broken := f.addStock("GONE.AX")
	require.NoError(t, f.portfolioRepo.AddStock(ctx, portfolio.ID, broken.ID))
	delete(f.stockRepo.stocks, broken.ID)

	resp, err := f.svc.ComputePortfolio(ctx, portfolio.ID)
	require.NoError(t, err)

	assert.Equal(t, portfolio.ID, resp.PortfolioID)
	assert.Equal(t, "Core", resp.Name)
	require.Len(t, resp.Stocks, 2)
	assert.True(t, resp.Stocks["VAS.AX"].MarketValue.Valid)

	failed := resp.Stocks[fmt.Sprintf("STOCK-%d", broken.ID)]
	assert.True(t, failed.Flagged())
	assert.False(t, failed.MarketValue.Valid)

	assert.True(t, resp.Totals.MarketValue.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 1, resp.Totals.Flagged)
}
