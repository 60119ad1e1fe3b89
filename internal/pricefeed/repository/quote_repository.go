package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"equity-portfolio-tracker/internal/pricefeed/config"
	"equity-portfolio-tracker/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// QuoteRepository fetches the current market price for a Yahoo symbol.
type QuoteRepository interface {
	GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type yahooQuoteRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooQuoteRepository creates a rate-limited scraper over Yahoo Finance
// quote pages.
func NewYahooQuoteRepository(cfg *config.Config, log *logger.Logger) QuoteRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.PriceFeed.MaxRequestPerMinute)
	return &yahooQuoteRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooQuoteRepository) GetQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}

	url := fmt.Sprintf("%s/quote/%s", r.cfg.PriceFeed.QuoteBaseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; portfolio-tracker)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse quote page for %s: %w", symbol, err)
	}

	selector := fmt.Sprintf(`fin-streamer[data-symbol=%q][data-field="regularMarketPrice"]`, symbol)
	node := doc.Find(selector).First()
	raw, ok := node.Attr("data-value")
	if !ok || raw == "" {
		// Page layout fallback: any regularMarketPrice streamer.
		node = doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()
		raw, ok = node.Attr("data-value")
	}
	if !ok || raw == "" {
		return decimal.Zero, fmt.Errorf("no price found on quote page for %s", symbol)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad price %q for %s: %w", raw, symbol, err)
	}
	return price, nil
}
