// Package analysis turns a validated daily price series into the per-ticker
// record the dashboard renders: an indicator snapshot and a rule-based
// recommendation.
package analysis

import (
	"math"

	"stockboard/indicators"
	"stockboard/models"
)

// Periods holds the lookback windows used across the dashboard.
type Periods struct {
	SMA        int
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultPeriods are the standard dashboard settings: SMA-20, RSI-14,
// MACD(12, 26, 9).
var DefaultPeriods = Periods{
	SMA:        20,
	RSI:        14,
	MACDFast:   12,
	MACDSlow:   26,
	MACDSignal: 9,
}

// MinHistory returns the number of daily closes needed before every
// snapshot field has a value. The binding constraint is normally the
// previous MACD/signal pair used for crossover detection: two signal-line
// values require MACDSlow+MACDSignal closes.
func (p Periods) MinHistory() int {
	need := p.MACDSlow + p.MACDSignal
	if p.SMA > need {
		need = p.SMA
	}
	if p.RSI+1 > need {
		need = p.RSI + 1
	}
	return need
}

// IndicatorSnapshot is the latest value of each indicator plus the
// immediately preceding MACD-line/signal-line pair needed for crossover
// detection. A nil field means the series was too short to derive it.
type IndicatorSnapshot struct {
	SMA20          *float64
	RSI14          *float64
	MACDLine       *float64
	SignalLine     *float64
	Histogram      *float64
	PrevMACDLine   *float64
	PrevSignalLine *float64
	DataPoints     int
}

// Snapshot derives the latest indicator values from an ascending close
// series.
func Snapshot(closes []float64, p Periods) IndicatorSnapshot {
	snap := IndicatorSnapshot{DataPoints: len(closes)}

	snap.SMA20 = last(indicators.SMA(closes, p.SMA), 0)
	snap.RSI14 = last(indicators.RSI(closes, p.RSI), 0)

	macd := indicators.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	snap.MACDLine = last(macd.MACDLine, 0)
	snap.SignalLine = last(macd.SignalLine, 0)
	snap.Histogram = last(macd.Histogram, 0)
	snap.PrevMACDLine = last(macd.MACDLine, 1)
	snap.PrevSignalLine = last(macd.SignalLine, 1)

	return snap
}

// Evaluate builds the full dashboard record for one symbol: snapshot the
// indicators, classify, and copy the values into the output contract.
func Evaluate(symbol string, series models.PriceSeries, p Periods) *models.StockAnalysis {
	closes := series.Closes()
	snap := Snapshot(closes, p)

	rec := models.NewStockAnalysis(symbol)
	rec.DataPoints = len(closes)
	if latest, ok := series.Latest(); ok {
		price := latest.Close
		rec.LatestPrice = &price
	}
	rec.SMA20 = snap.SMA20
	rec.RSI14 = snap.RSI14
	rec.MACDLine = snap.MACDLine
	rec.SignalLine = snap.SignalLine
	rec.Histogram = snap.Histogram

	var price float64
	if rec.LatestPrice != nil {
		price = *rec.LatestPrice
	} else {
		price = math.NaN() // forces the insufficient-data guard
	}

	result := Classify(price, snap, p)
	rec.Label = result.Label
	rec.Rationale = result.Rationale
	return rec
}

// last returns a pointer to the back-th element from the end of xs (0 is the
// final element), or nil when xs is too short or the value is non-finite.
func last(xs []float64, back int) *float64 {
	i := len(xs) - 1 - back
	if i < 0 {
		return nil
	}
	v := xs[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
