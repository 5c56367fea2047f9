package analysis

import (
	"fmt"
	"math"

	"stockboard/models"
)

// RSI thresholds for the oversold/overbought rules.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Classify maps an indicator snapshot to a recommendation. Rules are
// evaluated top to bottom, most specific first; the first match wins:
//
//  1. missing or non-finite indicators -> insufficient-data
//  2. RSI < 30 and MACD golden cross   -> strong-buy
//  3. RSI > 70 and MACD dead cross     -> strong-sell
//  4. golden cross alone               -> buy
//  5. dead cross alone                 -> sell
//  6. price vs SMA-20                  -> hold-uptrend / hold-downtrend / neutral
//
// Identical inputs always produce the identical (label, rationale) pair.
func Classify(latestPrice float64, snap IndicatorSnapshot, p Periods) models.Recommendation {
	if !finite(latestPrice) || !available(snap.SMA20, snap.RSI14, snap.MACDLine,
		snap.SignalLine, snap.PrevMACDLine, snap.PrevSignalLine) {
		short := p.MinHistory() - snap.DataPoints
		if short < 1 {
			short = 1
		}
		return models.Recommendation{
			Label:     models.LabelInsufficientData,
			Rationale: fmt.Sprintf("not enough price history to evaluate indicators: %d more daily closes needed", short),
		}
	}

	rsi := *snap.RSI14
	macd := *snap.MACDLine
	signal := *snap.SignalLine
	prevMACD := *snap.PrevMACDLine
	prevSignal := *snap.PrevSignalLine
	sma := *snap.SMA20

	crossedUp := macd > signal && prevMACD <= prevSignal
	crossedDown := macd < signal && prevMACD >= prevSignal

	switch {
	case rsi < rsiOversold && crossedUp:
		return recommendation(models.LabelStrongBuy,
			"oversold RSI %.2f with MACD golden cross (%.2f above signal %.2f)", rsi, macd, signal)
	case rsi > rsiOverbought && crossedDown:
		return recommendation(models.LabelStrongSell,
			"overbought RSI %.2f with MACD dead cross (%.2f below signal %.2f)", rsi, macd, signal)
	case crossedUp:
		return recommendation(models.LabelBuy,
			"MACD line %.2f crossed above signal line %.2f", macd, signal)
	case crossedDown:
		return recommendation(models.LabelSell,
			"MACD line %.2f crossed below signal line %.2f", macd, signal)
	case latestPrice > sma:
		return recommendation(models.LabelHoldUptrend,
			"price %.2f above %d-day SMA %.2f", latestPrice, p.SMA, sma)
	case latestPrice < sma:
		return recommendation(models.LabelHoldDowntrend,
			"price %.2f below %d-day SMA %.2f", latestPrice, p.SMA, sma)
	default:
		return recommendation(models.LabelNeutral,
			"price %.2f equals %d-day SMA %.2f, no signal", latestPrice, p.SMA, sma)
	}
}

func recommendation(label models.RecommendationLabel, format string, args ...any) models.Recommendation {
	return models.Recommendation{
		Label:     label,
		Rationale: fmt.Sprintf(format, args...),
	}
}

// available reports whether every value is present and finite, guarding
// against NaN comparisons silently passing.
func available(values ...*float64) bool {
	for _, v := range values {
		if v == nil || !finite(*v) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
