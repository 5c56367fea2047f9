// Package indicators computes standard technical indicators from daily
// closing-price sequences. All functions are pure: no I/O, no state, no
// errors. A series shorter than the requested lookback is a defined
// degenerate case and yields an empty result.
//
// Every returned sequence is index-aligned to the trailing (most recent)
// portion of its input: the last element always corresponds to the last
// input price.
package indicators

// SMA computes the simple moving average over each window of period
// consecutive prices, sliding by one. The result has length
// max(0, len(prices)-period+1).
func SMA(prices []float64, period int) []float64 {
	if period < 1 || len(prices) < period {
		return nil
	}

	out := make([]float64, 0, len(prices)-period+1)
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}
