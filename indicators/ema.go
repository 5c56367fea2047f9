package indicators

// EMA computes the exponential moving average with smoothing factor
// 2/(period+1). The first value is seeded with the simple average of the
// first period prices; subsequent values follow the exponential recurrence.
// The result has length max(0, len(prices)-period+1).
func EMA(prices []float64, period int) []float64 {
	if period < 1 || len(prices) < period {
		return nil
	}

	seed := 0.0
	for _, p := range prices[:period] {
		seed += p
	}
	seed /= float64(period)

	out := make([]float64, 0, len(prices)-period+1)
	out = append(out, seed)

	multiplier := 2.0 / float64(period+1)
	prev := seed
	for _, p := range prices[period:] {
		prev = (p-prev)*multiplier + prev
		out = append(out, prev)
	}
	return out
}
