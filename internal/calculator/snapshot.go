package calculator

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// Config holds indicator lookbacks. Moving-average periods are fixed to the
// fields reported in the snapshot (20/50/200 SMA, 21 EMA).
type Config struct {
	RSIPeriod         int `yaml:"rsi_period"`
	RSIChangeLag      int `yaml:"rsi_change_lag"`
	MACDFast          int `yaml:"macd_fast"`
	MACDSlow          int `yaml:"macd_slow"`
	MACDSignal        int `yaml:"macd_signal"`
	ADXPeriod         int `yaml:"adx_period"`
	ATRPeriod         int `yaml:"atr_period"`
	VolatilityWindow  int `yaml:"volatility_window"`
	VolumeWindow      int `yaml:"volume_window"`
	AnnualizationDays int `yaml:"annualization_days"`
}

// DefaultConfig returns the standard lookbacks.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:         14,
		RSIChangeLag:      5,
		MACDFast:          12,
		MACDSlow:          26,
		MACDSignal:        9,
		ADXPeriod:         14,
		ATRPeriod:         14,
		VolatilityWindow:  20,
		VolumeWindow:      20,
		AnnualizationDays: 252,
	}
}

// Validate rejects lookbacks the indicators cannot work with.
func (c Config) Validate() error {
	switch {
	case c.RSIPeriod < 2:
		return fmt.Errorf("indicators.rsi_period must be >= 2")
	case c.RSIChangeLag < 1:
		return fmt.Errorf("indicators.rsi_change_lag must be >= 1")
	case c.MACDFast < 1 || c.MACDSlow <= c.MACDFast || c.MACDSignal < 1:
		return fmt.Errorf("indicators: macd periods must satisfy 0 < fast < slow and signal > 0")
	case c.ADXPeriod < 2:
		return fmt.Errorf("indicators.adx_period must be >= 2")
	case c.ATRPeriod < 1:
		return fmt.Errorf("indicators.atr_period must be >= 1")
	case c.VolatilityWindow < 2:
		return fmt.Errorf("indicators.volatility_window must be >= 2")
	case c.VolumeWindow < 1:
		return fmt.Errorf("indicators.volume_window must be >= 1")
	case c.AnnualizationDays < 1:
		return fmt.Errorf("indicators.annualization_days must be positive")
	}
	return nil
}

// ComputeSnapshot derives every indicator from the series. Fields whose
// lookback exceeds the series length stay nil; it never substitutes defaults.
func ComputeSnapshot(series model.PriceSeries, cfg Config) model.IndicatorSnapshot {
	closes := series.Closes()
	highs, lows := series.Highs(), series.Lows()

	var snap model.IndicatorSnapshot
	if len(closes) == 0 {
		return snap
	}
	snap.Flat = isFlat(closes)

	if v, ok := RSI(closes, cfg.RSIPeriod); ok {
		snap.RSI = finite(v)
	}
	if v, ok := RSIChange(closes, cfg.RSIPeriod, cfg.RSIChangeLag); ok {
		snap.RSIChange = finite(v)
	}
	if m, ok := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal); ok {
		snap.MACD = finite(m.Line)
		if m.Signal != nil {
			snap.MACDSignal = finite(*m.Signal)
			snap.MACDHistogram = finite(*m.Histogram)
		}
	}
	if dm, ok := ADX(highs, lows, closes, cfg.ADXPeriod); ok {
		snap.ADX = finite(dm.ADX)
		snap.PlusDI = finite(dm.PlusDI)
		snap.MinusDI = finite(dm.MinusDI)
	}
	if v, err := SMA(closes, 20); err == nil {
		snap.SMA20 = finite(v)
	}
	if v, err := SMA(closes, 50); err == nil {
		snap.SMA50 = finite(v)
	}
	if v, err := SMA(closes, 200); err == nil {
		snap.SMA200 = finite(v)
	}
	if v, err := EMA(closes, 21); err == nil {
		snap.EMA21 = finite(v)
	}
	if v, ok := ATR(highs, lows, closes, cfg.ATRPeriod); ok {
		snap.ATR = finite(v)
	}
	if v, ok := AnnualizedVolatility(closes, cfg.VolatilityWindow, cfg.AnnualizationDays); ok {
		snap.VolatilityPercent = finite(v)
	}
	if v, ok := VolumeChangePercent(series.Volumes(), cfg.VolumeWindow); ok {
		snap.VolumeChangePercent = finite(v)
	}
	return snap
}

func isFlat(closes []float64) bool {
	for _, c := range closes[1:] {
		if c != closes[0] {
			return false
		}
	}
	return true
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
