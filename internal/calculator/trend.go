package calculator

import talib "github.com/markcheno/go-talib"

// MACDResult is the latest MACD reading. Signal and Histogram need a longer
// history than the line itself and are nil until it is available.
type MACDResult struct {
	Line      float64
	Signal    *float64
	Histogram *float64
}

// MACD computes the fast/slow EMA difference and its signal-line EMA.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= fast || signal <= 0 || len(closes) < slow {
		return MACDResult{}, false
	}
	fastEMA := talib.Ema(closes, fast)
	slowEMA := talib.Ema(closes, slow)

	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}
	res := MACDResult{Line: line[len(line)-1]}
	if len(line) >= signal {
		sig := talib.Ema(line, signal)
		s := sig[len(sig)-1]
		h := res.Line - s
		res.Signal, res.Histogram = &s, &h
	}
	return res, true
}

// DirectionalMovement is the latest ADX reading with its directional indicators.
type DirectionalMovement struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX computes Wilder's average directional index. It needs 2*period bars
// because the DX series is itself smoothed over period.
func ADX(highs, lows, closes []float64, period int) (DirectionalMovement, bool) {
	if period <= 1 || len(closes) < 2*period {
		return DirectionalMovement{}, false
	}
	adx := talib.Adx(highs, lows, closes, period)
	plus := talib.PlusDI(highs, lows, closes, period)
	minus := talib.MinusDI(highs, lows, closes, period)
	last := len(closes) - 1
	return DirectionalMovement{ADX: adx[last], PlusDI: plus[last], MinusDI: minus[last]}, true
}

// ATR computes the Wilder average true range.
func ATR(highs, lows, closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	out := talib.Atr(highs, lows, closes, period)
	return out[len(out)-1], true
}
