package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stockboard/models"
	"stockboard/observability"

	"github.com/shopspring/decimal"
)

// AlphaVantageService fetches daily price series, quotes, and news from the
// Alpha Vantage API. All numeric payload fields arrive as strings and are
// parsed through decimal before conversion.
type AlphaVantageService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	outputSize string
	limiter    *RateLimiter
}

// NewAlphaVantageService creates an AlphaVantageService. lookbackDays picks
// the series output size (compact covers the latest 100 trading days).
// perMinute caps the request rate (the free tier allows 5 requests per
// minute); pass 0 to disable limiting.
func NewAlphaVantageService(apiKey string, lookbackDays, perMinute int) *AlphaVantageService {
	outputSize := "compact"
	if lookbackDays > 100 {
		outputSize = "full"
	}
	return &AlphaVantageService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.alphavantage.co/query",
		outputSize: outputSize,
		limiter:    NewRateLimiter(perMinute),
	}
}

// Name identifies the provider in logs and config.
func (s *AlphaVantageService) Name() string {
	return "alphavantage"
}

// dailySeriesResponse represents the TIME_SERIES_DAILY response. The series
// keys are trading dates in YYYY-MM-DD form, most recent first.
type dailySeriesResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// GetDailySeries returns the daily close series for a symbol, ascending by
// date and validated against the series invariants.
func (s *AlphaVantageService) GetDailySeries(ctx context.Context, symbol string) (models.PriceSeries, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), "daily_series")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), "daily_series")

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", s.outputSize)
	params.Set("apikey", s.apiKey)

	payload, err := WithCircuitBreaker(ctx, BreakerAlphaVantage, func() (*dailySeriesResponse, error) {
		var resp dailySeriesResponse
		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			return s.getJSON(ctx, params, &resp)
		})
		if err != nil {
			return nil, err
		}
		return &resp, nil
	})
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), "daily_series", "request")
		return nil, fmt.Errorf("failed to fetch daily series for %s: %w", symbol, err)
	}

	if msg := payload.apiError(); msg != "" {
		metrics.RecordExternalAPIError(s.Name(), "daily_series", "api")
		return nil, fmt.Errorf("alphavantage rejected daily series request for %s: %s", symbol, msg)
	}

	series, err := payload.toSeries()
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), "daily_series", "payload")
		return nil, fmt.Errorf("invalid daily series for %s: %w", symbol, err)
	}
	return series, nil
}

// apiError extracts the error text Alpha Vantage returns with HTTP 200.
func (r *dailySeriesResponse) apiError() string {
	switch {
	case r.ErrorMessage != "":
		return r.ErrorMessage
	case r.Note != "":
		return r.Note
	case r.Information != "":
		return r.Information
	case len(r.Series) == 0:
		return "empty time series"
	}
	return ""
}

// toSeries converts the keyed response map into an ascending, validated
// PriceSeries.
func (r *dailySeriesResponse) toSeries() (models.PriceSeries, error) {
	dates := make([]string, 0, len(r.Series))
	for d := range r.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make(models.PriceSeries, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", d, err)
		}
		closeDec, err := decimal.NewFromString(r.Series[d].Close)
		if err != nil {
			return nil, fmt.Errorf("bad close %q at %s: %w", r.Series[d].Close, d, err)
		}
		series = append(series, models.PricePoint{
			Date:  day,
			Close: closeDec.InexactFloat64(),
		})
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// quoteResponse represents a GLOBAL_QUOTE response.
type quoteResponse struct {
	GlobalQuote struct {
		Symbol    string `json:"01. symbol"`
		Price     string `json:"05. price"`
		Volume    string `json:"06. volume"`
		PrevClose string `json:"08. previous close"`
		Change    string `json:"09. change"`
	} `json:"Global Quote"`
}

// GetQuote returns the latest quote for a symbol.
func (s *AlphaVantageService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), "quote")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), "quote")

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", s.apiKey)

	quote, err := WithCircuitBreaker(ctx, BreakerAlphaVantage, func() (*models.Quote, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var resp quoteResponse
		if err := s.getJSON(ctx, params, &resp); err != nil {
			return nil, err
		}

		price, err := decimal.NewFromString(resp.GlobalQuote.Price)
		if err != nil {
			return nil, fmt.Errorf("bad price %q: %w", resp.GlobalQuote.Price, err)
		}
		prevClose, _ := decimal.NewFromString(resp.GlobalQuote.PrevClose)
		change, _ := decimal.NewFromString(resp.GlobalQuote.Change)
		volume, _ := decimal.NewFromString(resp.GlobalQuote.Volume)

		return &models.Quote{
			Symbol:    symbol,
			Price:     price.InexactFloat64(),
			PrevClose: prevClose.InexactFloat64(),
			Change:    change.InexactFloat64(),
			Volume:    volume.IntPart(),
			Timestamp: time.Now(),
		}, nil
	})
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), "quote", "request")
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	return quote, nil
}

// newsResponse represents the NEWS_SENTIMENT response.
type newsResponse struct {
	Feed []struct {
		Title            string   `json:"title"`
		URL              string   `json:"url"`
		Summary          string   `json:"summary"`
		Source           string   `json:"source"`
		TimePublished    string   `json:"time_published"`
		Authors          []string `json:"authors"`
		OverallSentiment string   `json:"overall_sentiment_label"`
	} `json:"feed"`
}

// GetNews returns recent news for a symbol.
func (s *AlphaVantageService) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(s.Name(), "news")
	timer := metrics.NewTimer()
	defer timer.ObserveExternalAPI(s.Name(), "news")

	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", symbol)
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("apikey", s.apiKey)

	resp, err := WithCircuitBreaker(ctx, BreakerAlphaVantage, func() (*newsResponse, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		var r newsResponse
		if err := s.getJSON(ctx, params, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		metrics.RecordExternalAPIError(s.Name(), "news", "request")
		return nil, fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
	}

	articles := make([]models.NewsArticle, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		publishedAt, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			observability.Warn("failed to parse news timestamp, using current time",
				"timestamp", item.TimePublished, "error", err)
			publishedAt = time.Now()
		}

		author := ""
		if len(item.Authors) > 0 {
			author = item.Authors[0]
		}

		articles = append(articles, models.NewsArticle{
			Title:       item.Title,
			Description: item.Summary,
			URL:         item.URL,
			Source:      item.Source,
			Author:      author,
			Sentiment:   item.OverallSentiment,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

// getJSON performs a GET against the query endpoint and decodes the body.
func (s *AlphaVantageService) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
