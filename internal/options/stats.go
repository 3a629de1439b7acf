package options

import (
	"math"

	"SignalDesk/internal/model"
)

// Open interest and volume cut-offs for liquidity buckets.
const (
	highOpenInterest     = 10000
	highVolume           = 5000
	moderateOpenInterest = 1000
	moderateVolume       = 500
)

// ClassifyLiquidity buckets a contract by open interest or volume.
func ClassifyLiquidity(openInterest, volume float64) model.Liquidity {
	switch {
	case openInterest >= highOpenInterest || volume >= highVolume:
		return model.LiquidityHigh
	case openInterest >= moderateOpenInterest || volume >= moderateVolume:
		return model.LiquidityModerate
	default:
		return model.LiquidityLow
	}
}

// IVPercentile is the percentage of historical observations at or below iv.
func IVPercentile(iv float64, history []float64) (float64, bool) {
	if len(history) == 0 {
		return 0, false
	}
	var below int
	for _, h := range history {
		if h <= iv {
			below++
		}
	}
	return float64(below) / float64(len(history)) * 100, true
}

// MaxPain is the settlement strike that minimizes the total intrinsic value
// paid to option holders across the chain. Ties go to the strike holding more
// open interest, then the strike closest to price, then the lower strike.
func MaxPain(contracts []model.Contract, price float64) (float64, bool) {
	strikes := distinctStrikes(contracts)
	if len(strikes) == 0 {
		return 0, false
	}
	oiAt := make(map[float64]float64, len(strikes))
	for _, c := range contracts {
		oiAt[c.Strike] += c.OpenInterest
	}

	best, bestPain := strikes[0], math.Inf(1)
	for _, settle := range strikes {
		pain := 0.0
		for _, c := range contracts {
			switch c.Type {
			case model.OptionCall:
				pain += c.OpenInterest * math.Max(0, settle-c.Strike)
			case model.OptionPut:
				pain += c.OpenInterest * math.Max(0, c.Strike-settle)
			}
		}
		switch {
		case pain < bestPain:
			best, bestPain = settle, pain
		case pain > bestPain:
		case oiAt[settle] > oiAt[best]:
			best = settle
		case oiAt[settle] == oiAt[best] && math.Abs(settle-price) < math.Abs(best-price):
			best = settle
		}
	}
	return best, true
}
