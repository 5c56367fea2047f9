package services

import (
	"context"
	"fmt"
	"time"

	"stockboard/models"
	"stockboard/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// alpacaDataClient is the slice of the marketdata client this service uses.
type alpacaDataClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaService is the alternate daily-series provider, backed by the Alpaca
// market-data API.
type AlpacaService struct {
	dataClient   alpacaDataClient
	lookbackDays int
	limiter      *RateLimiter
}

// NewAlpacaService creates an AlpacaService fetching lookbackDays of daily
// bars per series request.
func NewAlpacaService(apiKey, apiSecret string, lookbackDays, perMinute int) *AlpacaService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &AlpacaService{
		dataClient:   dataClient,
		lookbackDays: lookbackDays,
		limiter:      NewRateLimiter(perMinute),
	}
}

// Name identifies the provider in logs and config.
func (s *AlpacaService) Name() string {
	return "alpaca"
}

// GetDailySeries returns the daily close series for a symbol, ascending by
// date and validated against the series invariants.
func (s *AlpacaService) GetDailySeries(ctx context.Context, symbol string) (models.PriceSeries, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), "daily_series")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), "daily_series")

	end := time.Now()
	start := end.AddDate(0, 0, -s.lookbackDays)

	bars, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]marketdata.Bar, error) {
		var got []marketdata.Bar
		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			var fetchErr error
			got, fetchErr = s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
				TimeFrame: marketdata.OneDay,
				Start:     start,
				End:       end,
			})
			return fetchErr
		})
		return got, err
	})
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), "daily_series", "request")
		return nil, fmt.Errorf("failed to fetch daily bars for %s: %w", symbol, err)
	}

	series := make(models.PriceSeries, 0, len(bars))
	for _, bar := range bars {
		series = append(series, models.PricePoint{
			Date:  bar.Timestamp,
			Close: bar.Close,
		})
	}

	if err := series.Validate(); err != nil {
		metrics.RecordExternalAPIError(s.Name(), "daily_series", "payload")
		return nil, fmt.Errorf("invalid daily series for %s: %w", symbol, err)
	}
	return series, nil
}
