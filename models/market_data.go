package models

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is a single daily observation: the trading day and its closing
// price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered sequence of daily closes, strictly ascending by
// date with no duplicate dates. Providers must call Validate before handing
// a series to the analysis layer.
type PriceSeries []PricePoint

// Validate checks the series invariants: strictly ascending unique dates and
// positive finite closing prices.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return fmt.Errorf("non-finite close at %s", p.Date.Format("2006-01-02"))
		}
		if p.Close <= 0 {
			return fmt.Errorf("non-positive close %.4f at %s", p.Close, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !s[i-1].Date.Before(p.Date) {
			return fmt.Errorf("dates not strictly ascending at index %d (%s then %s)",
				i, s[i-1].Date.Format("2006-01-02"), p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent price point and whether the series is
// non-empty.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Quote represents the latest traded price for a symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	PrevClose float64   `json:"prev_close"`
	Change    float64   `json:"change"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// NewsArticle represents a news article about a stock.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Sentiment   string    `json:"sentiment,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// ChartData carries everything the chart view needs for one symbol. The
// derived arrays are shorter than Dates/Closes and aligned to the trailing
// end of the series.
type ChartData struct {
	Symbol     string    `json:"symbol"`
	Dates      []string  `json:"dates"`
	Closes     []float64 `json:"closes"`
	SMA20      []float64 `json:"sma20"`
	MACDLine   []float64 `json:"macd_line"`
	SignalLine []float64 `json:"signal_line"`
	Histogram  []float64 `json:"histogram"`
}
