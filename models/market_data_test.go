package models

import (
	"math"
	"testing"
	"time"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestPriceSeries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		series  PriceSeries
		wantErr bool
	}{
		{
			name:   "empty series is valid",
			series: PriceSeries{},
		},
		{
			name: "ascending dates and positive closes",
			series: PriceSeries{
				{Date: day(0), Close: 100},
				{Date: day(1), Close: 101.5},
				{Date: day(4), Close: 99.2},
			},
		},
		{
			name: "duplicate date",
			series: PriceSeries{
				{Date: day(0), Close: 100},
				{Date: day(0), Close: 101},
			},
			wantErr: true,
		},
		{
			name: "descending dates",
			series: PriceSeries{
				{Date: day(1), Close: 100},
				{Date: day(0), Close: 101},
			},
			wantErr: true,
		},
		{
			name: "zero close",
			series: PriceSeries{
				{Date: day(0), Close: 0},
			},
			wantErr: true,
		},
		{
			name: "NaN close",
			series: PriceSeries{
				{Date: day(0), Close: math.NaN()},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.series.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPriceSeries_Closes(t *testing.T) {
	series := PriceSeries{
		{Date: day(0), Close: 100},
		{Date: day(1), Close: 102},
	}

	closes := series.Closes()
	if len(closes) != 2 || closes[0] != 100 || closes[1] != 102 {
		t.Errorf("Closes() = %v, want [100 102]", closes)
	}
}

func TestPriceSeries_Latest(t *testing.T) {
	if _, ok := (PriceSeries{}).Latest(); ok {
		t.Error("Latest() on empty series should report not-ok")
	}

	series := PriceSeries{
		{Date: day(0), Close: 100},
		{Date: day(1), Close: 102},
	}
	latest, ok := series.Latest()
	if !ok {
		t.Fatal("Latest() should report ok for a non-empty series")
	}
	if latest.Close != 102 {
		t.Errorf("Latest().Close = %v, want 102", latest.Close)
	}
}
