package service

import (
	"context"
	"fmt"
	"testing"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketCodeRepo struct {
	suffixes map[string]string
}

func (r *fakeMarketCodeRepo) FindAll(_ context.Context) ([]entity.MarketCode, error) {
	var out []entity.MarketCode
	for market, suffix := range r.suffixes {
		out = append(out, entity.MarketCode{MarketOrIndex: market, MarketSuffix: suffix})
	}
	return out, nil
}

func (r *fakeMarketCodeRepo) FindSuffix(_ context.Context, marketOrIndex string) (string, error) {
	suffix, ok := r.suffixes[marketOrIndex]
	if !ok {
		return "", fmt.Errorf("market %q not found", marketOrIndex)
	}
	return suffix, nil
}

func newStockService(t *testing.T) (StockService, *fakeStockRepo) {
	stockRepo := &fakeStockRepo{stocks: make(map[uint]*entity.Stock)}
	marketRepo := &fakeMarketCodeRepo{suffixes: map[string]string{
		"ASX":    ".AX",
		"NASDAQ": "",
	}}
	return NewStockService(stockRepo, marketRepo, testLogger(t)), stockRepo
}

func TestCreateStockDerivesYahooSymbolFromMarket(t *testing.T) {
	svc, _ := newStockService(t)

	stock, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		InstrumentCode: "VAS",
		Name:           "Vanguard Australian Shares",
		MarketOrIndex:  "ASX",
	})
	require.NoError(t, err)

	assert.Equal(t, "VAS.AX", stock.YahooSymbol)
	assert.Equal(t, ".AX", stock.MarketSuffix)
	assert.Equal(t, entity.VerificationStatusUnverified, stock.VerificationStatus)
}

func TestCreateStockWithoutMarketUsesBareCode(t *testing.T) {
	svc, _ := newStockService(t)

	stock, err := svc.Create(context.Background(), &dto.CreateStockRequest{InstrumentCode: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", stock.YahooSymbol)
}

func TestCreateStockRejectsUnknownMarket(t *testing.T) {
	svc, _ := newStockService(t)

	_, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		InstrumentCode: "VAS",
		MarketOrIndex:  "NOPE",
	})
	assert.Error(t, err)
}

func TestUpdateMarketRederivesSymbol(t *testing.T) {
	svc, repo := newStockService(t)
	ctx := context.Background()

	stock, err := svc.Create(ctx, &dto.CreateStockRequest{InstrumentCode: "VAS", MarketOrIndex: "NASDAQ"})
	require.NoError(t, err)
	require.Equal(t, "VAS", stock.YahooSymbol)

	updated, err := svc.UpdateMarket(ctx, stock.ID, "ASX")
	require.NoError(t, err)
	assert.Equal(t, "VAS.AX", updated.YahooSymbol)
	assert.Equal(t, "VAS.AX", repo.stocks[stock.ID].YahooSymbol)
}
