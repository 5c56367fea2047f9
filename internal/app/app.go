// Package app owns the dashboard state: the latest per-ticker analysis
// records and the price series they were derived from. State lives only in
// memory for the current view; a restart starts empty.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockboard/analysis"
	"stockboard/config"
	"stockboard/indicators"
	"stockboard/models"
	"stockboard/observability"
	"stockboard/services"
)

// DashboardState is the explicitly-owned snapshot handed to the presentation
// layer: one analysis record per watched symbol plus the refresh timestamp.
type DashboardState struct {
	Stocks      []models.StockAnalysis `json:"stocks"`
	RefreshedAt time.Time              `json:"refreshed_at"`
}

// App coordinates ingestion, analysis, and the in-memory dashboard state.
type App struct {
	cfg      *config.Config
	provider services.MarketDataProvider
	news     services.NewsProvider
	quotes   services.QuoteProvider
	periods  analysis.Periods

	mu          sync.RWMutex
	analyses    map[string]models.StockAnalysis
	series      map[string]models.PriceSeries
	refreshedAt time.Time
}

// New creates an App. news and quotes may be nil when the configured
// provider does not support them; the corresponding endpoints degrade
// gracefully.
func New(cfg *config.Config, provider services.MarketDataProvider, news services.NewsProvider, quotes services.QuoteProvider) *App {
	return &App{
		cfg:      cfg,
		provider: provider,
		news:     news,
		quotes:   quotes,
		periods: analysis.Periods{
			SMA:        cfg.Indicators.SMAPeriod,
			RSI:        cfg.Indicators.RSIPeriod,
			MACDFast:   cfg.Indicators.MACDFastPeriod,
			MACDSlow:   cfg.Indicators.MACDSlowPeriod,
			MACDSignal: cfg.Indicators.MACDSignalPeriod,
		},
		analyses: make(map[string]models.StockAnalysis),
		series:   make(map[string]models.PriceSeries),
	}
}

// Watchlist returns the configured symbols.
func (a *App) Watchlist() []string {
	return a.cfg.Market.Watchlist
}

// ProviderName reports which market data provider backs this app.
func (a *App) ProviderName() string {
	return a.provider.Name()
}

// RefreshSymbol fetches the daily series for one symbol, evaluates the
// indicators, and stores the resulting record. A fetch failure is a defined
// outcome, not an error: the stored record carries the load-failed label.
func (a *App) RefreshSymbol(ctx context.Context, symbol string) models.StockAnalysis {
	metrics := observability.GetMetrics()
	metrics.RecordRefresh(symbol)
	timer := metrics.NewTimer()

	series, err := a.provider.GetDailySeries(ctx, symbol)
	if err != nil {
		observability.WithSymbol(symbol).Error("failed to load price series",
			"provider", a.provider.Name(), "error", err)
		metrics.RecordRefreshError(symbol, "fetch")
		timer.ObserveRefresh(symbol, "error")

		rec := models.NewLoadFailed(symbol, err.Error())
		a.store(symbol, nil, *rec)
		return *rec
	}

	rec := analysis.Evaluate(symbol, series, a.periods)
	metrics.RecordRecommendation(string(rec.Label))
	if rec.RSI14 != nil {
		metrics.RecordRSI(symbol, *rec.RSI14)
	}
	timer.ObserveRefresh(symbol, "ok")

	observability.WithSymbol(symbol).Info("refreshed",
		"label", rec.Label,
		"data_points", rec.DataPoints)

	a.store(symbol, series, *rec)
	return *rec
}

// RefreshAll refreshes every watchlisted symbol sequentially; the provider's
// rate limiter paces the underlying network calls. It stops early when the
// context is cancelled.
func (a *App) RefreshAll(ctx context.Context) error {
	for _, symbol := range a.cfg.Market.Watchlist {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.RefreshSymbol(ctx, symbol)
	}
	return nil
}

func (a *App) store(symbol string, series models.PriceSeries, rec models.StockAnalysis) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.analyses[symbol] = rec
	if series != nil {
		a.series[symbol] = series
	}
	a.refreshedAt = time.Now()
}

// Dashboard returns a copy of the current dashboard state, sorted by symbol.
func (a *App) Dashboard() DashboardState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stocks := make([]models.StockAnalysis, 0, len(a.analyses))
	for _, rec := range a.analyses {
		stocks = append(stocks, rec)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })

	return DashboardState{
		Stocks:      stocks,
		RefreshedAt: a.refreshedAt,
	}
}

// Analysis returns the stored record for a symbol, if any.
func (a *App) Analysis(symbol string) (models.StockAnalysis, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.analyses[symbol]
	return rec, ok
}

// ChartData builds the chart payload for a symbol from the stored series:
// dates, closes, and the trailing-aligned derived arrays.
func (a *App) ChartData(symbol string) (*models.ChartData, error) {
	a.mu.RLock()
	series, ok := a.series[symbol]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no price data loaded for %s", symbol)
	}

	closes := series.Closes()
	dates := make([]string, len(series))
	for i, p := range series {
		dates[i] = p.Date.Format("2006-01-02")
	}

	macd := indicators.MACD(closes, a.periods.MACDFast, a.periods.MACDSlow, a.periods.MACDSignal)

	return &models.ChartData{
		Symbol:     symbol,
		Dates:      dates,
		Closes:     closes,
		SMA20:      indicators.SMA(closes, a.periods.SMA),
		MACDLine:   macd.MACDLine,
		SignalLine: macd.SignalLine,
		Histogram:  macd.Histogram,
	}, nil
}

// News fetches recent articles for a symbol.
func (a *App) News(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	if a.news == nil {
		return nil, fmt.Errorf("news provider not configured")
	}
	return a.news.GetNews(ctx, symbol, a.cfg.Market.NewsLimit)
}

// Quote fetches the latest quote for a symbol.
func (a *App) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	if a.quotes == nil {
		return nil, fmt.Errorf("quote provider not configured")
	}
	return a.quotes.GetQuote(ctx, symbol)
}
