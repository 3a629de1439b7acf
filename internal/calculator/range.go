package calculator

import (
	"math"

	"SignalDesk/internal/model"
)

// TradingDaysPerYear is the number of sessions scanned for the 52-week range.
const TradingDaysPerYear = 252

// Range52w scans the most recent 252 bars and returns the high and low.
// Shorter histories use every bar available.
func Range52w(bars []model.PriceBar) (high, low float64, ok bool) {
	if len(bars) == 0 {
		return 0, 0, false
	}
	start := len(bars) - TradingDaysPerYear
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, true
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos))
}
