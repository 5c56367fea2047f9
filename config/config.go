package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Known market-data providers.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderAlpaca       = "alpaca"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// External service configurations
	AlphaVantage AlphaVantageConfig
	Alpaca       AlpacaConfig

	// Market data ingestion configuration
	Market MarketConfig

	// Indicator lookback windows
	Indicators IndicatorConfig
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
	TimeoutSeconds     int
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey string
}

// AlpacaConfig holds Alpaca API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
}

// MarketConfig holds ingestion configuration
type MarketConfig struct {
	Provider          string // alphavantage or alpaca
	Watchlist         []string
	LookbackDays      int
	RequestsPerMinute int
	NewsLimit         int
}

// IndicatorConfig holds the indicator lookback windows
type IndicatorConfig struct {
	SMAPeriod        int
	RSIPeriod        int
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			TimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 60),
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
		},
		Market: MarketConfig{
			Provider:          getEnvString("MARKET_DATA_PROVIDER", ProviderAlphaVantage),
			Watchlist:         splitList(getEnvString("WATCHLIST", "AAPL,MSFT,GOOGL,AMZN,TSLA")),
			LookbackDays:      getEnvInt("MARKET_LOOKBACK_DAYS", 150),
			RequestsPerMinute: getEnvInt("MARKET_REQUESTS_PER_MINUTE", 5),
			NewsLimit:         getEnvInt("MARKET_NEWS_LIMIT", 10),
		},
		Indicators: IndicatorConfig{
			SMAPeriod:        getEnvInt("SMA_PERIOD", 20),
			RSIPeriod:        getEnvInt("RSI_PERIOD", 14),
			MACDFastPeriod:   getEnvInt("MACD_FAST_PERIOD", 12),
			MACDSlowPeriod:   getEnvInt("MACD_SLOW_PERIOD", 26),
			MACDSignalPeriod: getEnvInt("MACD_SIGNAL_PERIOD", 9),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case ProviderAlphaVantage, ProviderAlpaca:
	default:
		return fmt.Errorf("MARKET_DATA_PROVIDER must be %q or %q, got %q",
			ProviderAlphaVantage, ProviderAlpaca, c.Market.Provider)
	}

	if len(c.Market.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST must contain at least one symbol")
	}
	if c.Market.LookbackDays <= 0 {
		return fmt.Errorf("MARKET_LOOKBACK_DAYS must be positive, got %d", c.Market.LookbackDays)
	}

	ind := c.Indicators
	for name, v := range map[string]int{
		"SMA_PERIOD":         ind.SMAPeriod,
		"RSI_PERIOD":         ind.RSIPeriod,
		"MACD_FAST_PERIOD":   ind.MACDFastPeriod,
		"MACD_SLOW_PERIOD":   ind.MACDSlowPeriod,
		"MACD_SIGNAL_PERIOD": ind.MACDSignalPeriod,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}

	if ind.MACDFastPeriod >= ind.MACDSlowPeriod {
		return fmt.Errorf("MACD_FAST_PERIOD (%d) must be smaller than MACD_SLOW_PERIOD (%d)",
			ind.MACDFastPeriod, ind.MACDSlowPeriod)
	}

	return nil
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
			TimeoutSeconds:     60,
		},
		Market: MarketConfig{
			Provider:          ProviderAlphaVantage,
			Watchlist:         []string{"AAPL", "MSFT"},
			LookbackDays:      150,
			RequestsPerMinute: 0, // no limiting in tests
			NewsLimit:         10,
		},
		Indicators: IndicatorConfig{
			SMAPeriod:        20,
			RSIPeriod:        14,
			MACDFastPeriod:   12,
			MACDSlowPeriod:   26,
			MACDSignalPeriod: 9,
		},
	}
}
