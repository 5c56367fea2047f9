package indicators

// MACDResult holds the three MACD output sequences. All are trailing-aligned
// to the input series; SignalLine and Histogram are shorter than MACDLine by
// signalPeriod-1.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
}

// MACD computes the moving average convergence divergence components:
// MACDLine = EMA(fast) - EMA(slow), SignalLine = EMA(MACDLine, signalPeriod),
// Histogram = MACDLine - SignalLine.
//
// The fast and slow EMAs start at different offsets, so they are aligned by
// their trailing ends before subtracting; the longer head is truncated. All
// fields are empty when the input is too short for their period requirements.
func MACD(prices []float64, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	fast := EMA(prices, fastPeriod)
	slow := EMA(prices, slowPeriod)

	macdLine := alignedDiff(fast, slow)
	signalLine := EMA(macdLine, signalPeriod)
	histogram := alignedDiff(macdLine, signalLine)

	return MACDResult{
		MACDLine:   macdLine,
		SignalLine: signalLine,
		Histogram:  histogram,
	}
}

// alignedDiff subtracts b from a element-wise after aligning both sequences
// by their trailing ends. The result has length min(len(a), len(b)).
func alignedDiff(a, b []float64) []float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return nil
	}

	offA := len(a) - n
	offB := len(b) - n
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[offA+i] - b[offB+i]
	}
	return out
}
