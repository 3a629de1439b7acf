package calculator

import "math"

// RSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 closes; ok is false otherwise.
// A series with no gains and no losses reads as neutral 50.
func RSI(closes []float64, period int) (value float64, ok bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50, true
	case avgLoss == 0:
		return 100, true
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	return math.Max(0, math.Min(100, rsi)), true
}

// RSIChange is the RSI now minus the RSI lag bars earlier.
func RSIChange(closes []float64, period, lag int) (float64, bool) {
	if lag <= 0 || len(closes) < period+1+lag {
		return 0, false
	}
	now, ok := RSI(closes, period)
	if !ok {
		return 0, false
	}
	before, ok := RSI(closes[:len(closes)-lag], period)
	if !ok {
		return 0, false
	}
	return now - before, true
}
