package models

import (
	"time"

	"github.com/google/uuid"
)

// RecommendationLabel is one of the closed set of dashboard recommendations.
type RecommendationLabel string

const (
	LabelStrongBuy        RecommendationLabel = "strong-buy"
	LabelBuy              RecommendationLabel = "buy"
	LabelHoldUptrend      RecommendationLabel = "hold-uptrend"
	LabelHoldDowntrend    RecommendationLabel = "hold-downtrend"
	LabelNeutral          RecommendationLabel = "neutral"
	LabelSell             RecommendationLabel = "sell"
	LabelStrongSell       RecommendationLabel = "strong-sell"
	LabelInsufficientData RecommendationLabel = "insufficient-data"
	LabelLoadFailed       RecommendationLabel = "load-failed"
)

// Recommendation pairs a label with the human-readable rationale built from
// the triggering indicator values. Produced fresh per evaluation; never
// mutated after creation.
type Recommendation struct {
	Label     RecommendationLabel `json:"label"`
	Rationale string              `json:"rationale"`
}

// StockAnalysis is the per-ticker record delivered to the presentation
// layer. Numeric fields are either a finite value or null when the price
// history was too short to derive them — never NaN or Inf.
type StockAnalysis struct {
	ID          uuid.UUID           `json:"id"`
	Symbol      string              `json:"symbol"`
	LatestPrice *float64            `json:"latest_price"`
	SMA20       *float64            `json:"sma20"`
	RSI14       *float64            `json:"rsi14"`
	MACDLine    *float64            `json:"macd_line"`
	SignalLine  *float64            `json:"signal_line"`
	Histogram   *float64            `json:"histogram"`
	Label       RecommendationLabel `json:"label"`
	Rationale   string              `json:"rationale"`
	DataPoints  int                 `json:"data_points"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewStockAnalysis creates a StockAnalysis shell with a fresh ID and
// timestamp.
func NewStockAnalysis(symbol string) *StockAnalysis {
	return &StockAnalysis{
		ID:        uuid.New(),
		Symbol:    symbol,
		UpdatedAt: time.Now(),
	}
}

// NewLoadFailed creates the record stored when the market-data fetch for a
// symbol fails.
func NewLoadFailed(symbol, reason string) *StockAnalysis {
	rec := NewStockAnalysis(symbol)
	rec.Label = LabelLoadFailed
	rec.Rationale = "failed to load price data: " + reason
	return rec
}
