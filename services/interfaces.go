package services

import (
	"context"

	"stockboard/models"
)

// MarketDataProvider supplies validated daily close series, ascending by
// date. Implementations own their retry, rate-limit, and circuit-breaker
// behavior; callers receive a series that already satisfies
// models.PriceSeries.Validate.
type MarketDataProvider interface {
	GetDailySeries(ctx context.Context, symbol string) (models.PriceSeries, error)
	Name() string
}

// NewsProvider supplies recent news articles for a symbol.
type NewsProvider interface {
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
}

// QuoteProvider supplies the latest traded price for a symbol.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Compile-time interface verification
var (
	_ MarketDataProvider = (*AlphaVantageService)(nil)
	_ NewsProvider       = (*AlphaVantageService)(nil)
	_ QuoteProvider      = (*AlphaVantageService)(nil)
	_ MarketDataProvider = (*AlpacaService)(nil)
)
