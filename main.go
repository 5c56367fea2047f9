package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockboard/config"
	"stockboard/internal/api"
	"stockboard/internal/app"
	"stockboard/observability"
	"stockboard/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables; a missing .env file is fine.
	_ = godotenv.Load()

	production := os.Getenv("ENV") == "production"
	observability.InitLogger(production)
	observability.InitMetrics()

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	services.SetGlobalRegistry(services.NewCircuitBreakerRegistry(services.DefaultCircuitBreakerConfig))

	provider, news, quotes := buildProviders(cfg)
	if provider == nil {
		observability.Fatal("no market data provider configured; set ALPHA_VANTAGE_API_KEY or ALPACA_API_KEY/ALPACA_API_SECRET")
	}

	application := app.New(cfg, provider, news, quotes)

	// Warm the dashboard in the background; the provider's rate limiter
	// paces the watchlist fetches.
	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	defer cancelRefresh()
	go func() {
		observability.Info("starting initial refresh",
			"provider", provider.Name(),
			"symbols", len(cfg.Market.Watchlist))
		if err := application.RefreshAll(refreshCtx); err != nil {
			observability.Warn("initial refresh interrupted", "error", err)
		}
	}()

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting server", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down...")
	cancelRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}

	observability.Info("server stopped")
}

// buildProviders constructs the market data provider named in the config,
// plus the news and quote providers when credentials allow. Missing
// credentials degrade features instead of failing startup.
func buildProviders(cfg *config.Config) (services.MarketDataProvider, services.NewsProvider, services.QuoteProvider) {
	var av *services.AlphaVantageService
	if cfg.HasAlphaVantage() {
		av = services.NewAlphaVantageService(cfg.AlphaVantage.APIKey, cfg.Market.LookbackDays, cfg.Market.RequestsPerMinute)
	} else {
		observability.Warn("ALPHA_VANTAGE_API_KEY not set, Alpha Vantage disabled")
	}

	var alpaca *services.AlpacaService
	if cfg.HasAlpaca() {
		alpaca = services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Market.LookbackDays, cfg.Market.RequestsPerMinute)
	} else {
		observability.Warn("Alpaca credentials not set, Alpaca disabled")
	}

	var provider services.MarketDataProvider
	switch cfg.Market.Provider {
	case config.ProviderAlpaca:
		if alpaca != nil {
			provider = alpaca
		}
	default:
		if av != nil {
			provider = av
		}
	}

	// Fall back to whichever provider has credentials.
	if provider == nil {
		if av != nil {
			provider = av
		} else if alpaca != nil {
			provider = alpaca
		}
	}

	// News and quotes come from Alpha Vantage regardless of the series
	// provider; both are nil without a key.
	var news services.NewsProvider
	var quotes services.QuoteProvider
	if av != nil {
		news = av
		quotes = av
	}

	return provider, news, quotes
}
