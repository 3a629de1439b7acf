package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"
)

var errNotEnoughData = errors.New("not enough data")

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errNotEnoughData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMA returns the latest exponential moving average, seeded with the SMA of
// the first period prices.
func EMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errNotEnoughData
	}
	out := talib.Ema(prices, period)
	return out[len(out)-1], nil
}
