package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   []float64
	}{
		{
			name:   "3-day windows over 5 prices",
			prices: []float64{1, 2, 3, 4, 5},
			period: 3,
			want:   []float64{2, 3, 4},
		},
		{
			name:   "period equals length",
			prices: []float64{10, 20, 30},
			period: 3,
			want:   []float64{20},
		},
		{
			name:   "period 1 echoes input",
			prices: []float64{7, 8, 9},
			period: 1,
			want:   []float64{7, 8, 9},
		},
		{
			name:   "short input is empty, not an error",
			prices: []float64{1, 2},
			period: 5,
			want:   nil,
		},
		{
			name:   "empty input",
			prices: nil,
			period: 3,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.prices, tt.period)
			if len(got) != len(tt.want) {
				t.Fatalf("SMA() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !almostEqual(got[i], tt.want[i]) {
					t.Errorf("SMA()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSMA_OutputLength(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	for _, period := range []int{1, 5, 20, 59, 60, 61} {
		got := len(SMA(prices, period))
		want := len(prices) - period + 1
		if want < 0 {
			want = 0
		}
		if got != want {
			t.Errorf("period %d: length = %d, want %d", period, got, want)
		}
	}
}

func TestEMA_SeedEqualsSMA(t *testing.T) {
	got := EMA([]float64{1, 2, 3, 4, 5}, 3)
	if len(got) != 3 {
		t.Fatalf("EMA() length = %d, want 3", len(got))
	}
	if !almostEqual(got[0], 2.0) {
		t.Errorf("EMA()[0] = %v, want 2 (SMA of first 3 prices)", got[0])
	}
}

func TestEMA_Recurrence(t *testing.T) {
	prices := []float64{10, 20, 30, 40, 50}
	period := 3
	got := EMA(prices, period)

	// Recompute by hand: seed = 20, multiplier = 0.5.
	multiplier := 2.0 / float64(period+1)
	want := []float64{20}
	prev := 20.0
	for _, p := range prices[period:] {
		prev = (p-prev)*multiplier + prev
		want = append(want, prev)
	}

	if len(got) != len(want) {
		t.Fatalf("EMA() length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("EMA()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEMA_ShortInput(t *testing.T) {
	if got := EMA([]float64{1, 2}, 3); len(got) != 0 {
		t.Errorf("EMA() on short input = %v, want empty", got)
	}
	if got := EMA(nil, 3); len(got) != 0 {
		t.Errorf("EMA() on nil input = %v, want empty", got)
	}
}

func TestRSI_Range(t *testing.T) {
	// Mixed up/down movements.
	prices := []float64{44, 44.5, 43.8, 44.2, 45.1, 44.9, 45.3, 46, 45.5,
		46.2, 46.8, 46.4, 47, 47.5, 47.1, 47.9, 48.2, 47.8, 48.5, 49}

	got := RSI(prices, 14)
	if len(got) != len(prices)-14 {
		t.Fatalf("RSI() length = %d, want %d", len(got), len(prices)-14)
	}
	for i, v := range got {
		if v < 0 || v > 100 {
			t.Errorf("RSI()[%d] = %v, outside [0, 100]", i, v)
		}
	}
}

func TestRSI_AllGainsPinnedTo100(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	for i, v := range RSI(prices, 14) {
		if v != 100.0 {
			t.Errorf("RSI()[%d] = %v, want exactly 100 for all-gain series", i, v)
		}
	}
}

func TestRSI_AllLossesNearZero(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 200 - float64(i)
	}

	got := RSI(prices, 14)
	if len(got) == 0 {
		t.Fatal("RSI() returned empty for sufficient input")
	}
	last := got[len(got)-1]
	if last > 1e-9 {
		t.Errorf("RSI() = %v for all-loss series, want ~0", last)
	}
}

func TestRSI_RequiresPeriodPlusOne(t *testing.T) {
	prices := make([]float64, 14)
	for i := range prices {
		prices[i] = float64(i + 1)
	}

	if got := RSI(prices, 14); len(got) != 0 {
		t.Errorf("RSI() with exactly period prices = %v, want empty", got)
	}
	if got := RSI(append(prices, 15), 14); len(got) != 1 {
		t.Errorf("RSI() with period+1 prices has length %d, want 1", len(got))
	}
}
