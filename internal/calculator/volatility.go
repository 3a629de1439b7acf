package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// AnnualizedVolatility returns the standard deviation of the last window
// daily log returns, scaled by sqrt(annualization), in percent.
func AnnualizedVolatility(closes []float64, window, annualization int) (float64, bool) {
	if window < 2 || annualization <= 0 || len(closes) < window+1 {
		return 0, false
	}
	tail := closes[len(closes)-window-1:]
	returns := make([]float64, 0, window)
	for i := 1; i < len(tail); i++ {
		returns = append(returns, math.Log(tail[i]/tail[i-1]))
	}
	sd := talib.StdDev(returns, window, 1.0)
	return sd[len(sd)-1] * math.Sqrt(float64(annualization)) * 100, true
}

// VolumeChangePercent compares the latest volume with the mean of the window
// volumes before it.
func VolumeChangePercent(volumes []float64, window int) (float64, bool) {
	if window <= 0 || len(volumes) < window+1 {
		return 0, false
	}
	avg, err := SMA(volumes[:len(volumes)-1], window)
	if err != nil || avg <= 0 {
		return 0, false
	}
	return (volumes[len(volumes)-1]/avg - 1) * 100, true
}
