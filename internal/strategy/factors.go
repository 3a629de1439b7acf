package strategy

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// scoreDirectional maps ADX strength onto the side favoured by +DI/-DI.
// 100 is a strong uptrend, 0 a strong downtrend.
func scoreDirectional(snap model.IndicatorSnapshot, cfg Config) (model.FactorScore, bool) {
	if snap.ADX == nil || snap.PlusDI == nil || snap.MinusDI == nil {
		return model.FactorScore{}, false
	}
	strength := clamp(*snap.ADX/cfg.ADXFullScale, 0, 1)

	var side float64
	var commentary string
	switch {
	case *snap.PlusDI > *snap.MinusDI:
		side = 1
		commentary = fmt.Sprintf("ADX=%.1f +DI leads (%.1f/%.1f)", *snap.ADX, *snap.PlusDI, *snap.MinusDI)
	case *snap.MinusDI > *snap.PlusDI:
		side = -1
		commentary = fmt.Sprintf("ADX=%.1f -DI leads (%.1f/%.1f)", *snap.ADX, *snap.PlusDI, *snap.MinusDI)
	default:
		commentary = fmt.Sprintf("ADX=%.1f no directional lead", *snap.ADX)
	}
	return model.FactorScore{
		Name:       "Directional strength",
		RawScore:   50 + 50*side*strength,
		Weight:     cfg.DirectionalWeight,
		Commentary: commentary,
	}, true
}

// scoreTrendLine scores the MACD line relative to price, nudged by the
// histogram once the signal line exists.
func scoreTrendLine(snap model.IndicatorSnapshot, price float64, cfg Config) (model.FactorScore, bool) {
	if snap.MACD == nil || price <= 0 {
		return model.FactorScore{}, false
	}
	score := 50 + cfg.MACDScale*(*snap.MACD/price)
	commentary := fmt.Sprintf("MACD=%.3f", *snap.MACD)
	if snap.MACDHistogram != nil {
		score += cfg.MACDSlopeScale * (*snap.MACDHistogram / price)
		commentary += fmt.Sprintf(" hist=%+.3f", *snap.MACDHistogram)
	}
	return model.FactorScore{
		Name:       "Trend line",
		RawScore:   clamp(score, 0, 100),
		Weight:     cfg.TrendLineWeight,
		Commentary: commentary,
	}, true
}

// scoreMAPosition scores the average deviation of price from its moving averages.
func scoreMAPosition(snap model.IndicatorSnapshot, price float64, cfg Config) (model.FactorScore, bool) {
	var sum float64
	var n int
	for _, ma := range []*float64{snap.EMA21, snap.SMA20, snap.SMA50, snap.SMA200} {
		if ma == nil || *ma <= 0 {
			continue
		}
		sum += price / *ma - 1
		n++
	}
	if n == 0 {
		return model.FactorScore{}, false
	}
	deviation := sum / float64(n)
	return model.FactorScore{
		Name:       "MA position",
		RawScore:   clamp(50+cfg.MAScale*deviation, 0, 100),
		Weight:     cfg.MAPositionWeight,
		Commentary: fmt.Sprintf("%+.2f%% vs %d averages", deviation*100, n),
	}, true
}

// trendScore combines the available components, renormalizing their weights.
func trendScore(snap model.IndicatorSnapshot, price float64, cfg Config) (*float64, []model.FactorScore) {
	var factors []model.FactorScore
	if f, ok := scoreDirectional(snap, cfg); ok {
		factors = append(factors, f)
	}
	if f, ok := scoreTrendLine(snap, price, cfg); ok {
		factors = append(factors, f)
	}
	if f, ok := scoreMAPosition(snap, price, cfg); ok {
		factors = append(factors, f)
	}

	var totalWeight float64
	for _, f := range factors {
		totalWeight += f.Weight
	}
	if totalWeight <= 0 {
		return nil, factors
	}
	var score float64
	for i := range factors {
		factors[i].Weighted = factors[i].RawScore * factors[i].Weight / totalWeight
		score += factors[i].Weighted
	}
	score = clamp(score, 0, 100)
	return &score, factors
}

// momentumScore reads RSI distance from 50 and its recent change, in [-1, 1].
func momentumScore(snap model.IndicatorSnapshot, cfg Config) *float64 {
	if snap.RSI == nil {
		return nil
	}
	level := (*snap.RSI - 50) / 50
	weighted := cfg.MomentumLevelWeight * level
	total := cfg.MomentumLevelWeight
	if snap.RSIChange != nil && cfg.MomentumChangeWeight > 0 {
		weighted += cfg.MomentumChangeWeight * clamp(*snap.RSIChange/cfg.RSIChangeScale, -1, 1)
		total += cfg.MomentumChangeWeight
	}
	m := clamp(weighted/total, -1, 1)
	return &m
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
