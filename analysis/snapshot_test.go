package analysis

import (
	"math"
	"testing"
	"time"

	"stockboard/models"
)

func rippleSeries(n int) models.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(models.PriceSeries, n)
	for i := range series {
		series[i] = models.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + float64(i)*0.3 + 4*math.Sin(float64(i)/5),
		}
	}
	return series
}

func TestPeriods_MinHistory(t *testing.T) {
	if got := DefaultPeriods.MinHistory(); got != 35 {
		t.Errorf("MinHistory() = %d, want 35 (slow 26 + signal 9)", got)
	}

	// When the SMA dominates the other windows it becomes the constraint.
	p := Periods{SMA: 200, RSI: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
	if got := p.MinHistory(); got != 200 {
		t.Errorf("MinHistory() = %d, want 200", got)
	}
}

func TestSnapshot_FullHistory(t *testing.T) {
	closes := rippleSeries(120).Closes()
	snap := Snapshot(closes, DefaultPeriods)

	for name, v := range map[string]*float64{
		"SMA20":          snap.SMA20,
		"RSI14":          snap.RSI14,
		"MACDLine":       snap.MACDLine,
		"SignalLine":     snap.SignalLine,
		"Histogram":      snap.Histogram,
		"PrevMACDLine":   snap.PrevMACDLine,
		"PrevSignalLine": snap.PrevSignalLine,
	} {
		if v == nil {
			t.Errorf("%s is nil for 120-point series", name)
		}
	}

	if snap.Histogram != nil && snap.MACDLine != nil && snap.SignalLine != nil {
		want := *snap.MACDLine - *snap.SignalLine
		if math.Abs(*snap.Histogram-want) > 1e-9 {
			t.Errorf("Histogram = %v, want MACDLine-SignalLine = %v", *snap.Histogram, want)
		}
	}

	if snap.DataPoints != 120 {
		t.Errorf("DataPoints = %d, want 120", snap.DataPoints)
	}
}

func TestSnapshot_ShortHistory(t *testing.T) {
	// 34 closes: one short of two signal-line values.
	closes := rippleSeries(34).Closes()
	snap := Snapshot(closes, DefaultPeriods)

	if snap.SMA20 == nil || snap.RSI14 == nil || snap.MACDLine == nil {
		t.Error("SMA20, RSI14 and MACDLine should be available with 34 closes")
	}
	if snap.SignalLine == nil {
		t.Error("SignalLine should be available with 34 closes")
	}
	if snap.PrevSignalLine != nil {
		t.Error("PrevSignalLine should be nil with only one signal value")
	}
}

func TestEvaluate_ProducesCompleteRecord(t *testing.T) {
	series := rippleSeries(120)
	rec := Evaluate("AAPL", series, DefaultPeriods)

	if rec.Symbol != "AAPL" {
		t.Errorf("Symbol = %v, want AAPL", rec.Symbol)
	}
	if rec.LatestPrice == nil || *rec.LatestPrice != series[len(series)-1].Close {
		t.Error("LatestPrice should equal the final close")
	}
	if rec.Label == models.LabelInsufficientData || rec.Label == models.LabelLoadFailed {
		t.Errorf("Label = %v for full history", rec.Label)
	}
	if rec.Rationale == "" {
		t.Error("Rationale should not be empty")
	}
	if rec.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID should be assigned")
	}
}

func TestEvaluate_ShortSeriesIsInsufficientData(t *testing.T) {
	rec := Evaluate("NEWCO", rippleSeries(10), DefaultPeriods)

	if rec.Label != models.LabelInsufficientData {
		t.Errorf("Label = %v, want insufficient-data", rec.Label)
	}
	if rec.SignalLine != nil || rec.MACDLine != nil {
		t.Error("MACD fields should be nil for a 10-point series")
	}
	if rec.LatestPrice == nil {
		t.Error("LatestPrice should still be set from the last close")
	}
}

func TestEvaluate_EmptySeries(t *testing.T) {
	rec := Evaluate("EMPTY", nil, DefaultPeriods)

	if rec.Label != models.LabelInsufficientData {
		t.Errorf("Label = %v, want insufficient-data", rec.Label)
	}
	if rec.LatestPrice != nil {
		t.Error("LatestPrice should be nil for an empty series")
	}
}
