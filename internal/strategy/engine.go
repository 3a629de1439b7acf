package strategy

import "SignalDesk/internal/model"

// inputs is what the decision guards look at.
type inputs struct {
	trend    *float64
	momentum *float64
	flat     bool
	cfg      Config
}

// transition moves the decision out of the initial Neutral state when its
// guard holds. Guards are tried in order; the first match wins.
type transition struct {
	name  string
	guard func(in inputs) bool
	to    model.Direction
}

var transitions = []transition{
	{"insufficient data", insufficientData, model.DirectionNeutral},
	{"flat price series", flatSeries, model.DirectionNeutral},
	{"trend above upper threshold with positive momentum", bullish, model.DirectionUp},
	{"trend below lower threshold with negative momentum", bearish, model.DirectionDown},
}

func insufficientData(in inputs) bool { return in.trend == nil || in.momentum == nil }

func flatSeries(in inputs) bool { return in.flat }

func bullish(in inputs) bool {
	return *in.trend > in.cfg.TrendUpperThreshold && *in.momentum > in.cfg.MomentumMin
}

func bearish(in inputs) bool {
	return *in.trend < in.cfg.TrendLowerThreshold() && *in.momentum < -in.cfg.MomentumMin
}

// decide runs the Neutral -> {Up, Down} state machine.
func decide(in inputs) (model.Direction, string) {
	for _, t := range transitions {
		if t.guard(in) {
			return t.to, t.name
		}
	}
	return model.DirectionNeutral, "no threshold crossed"
}

// Evaluate computes the trade signal from an indicator snapshot and the
// current price. It is a pure function of its arguments.
func Evaluate(snap model.IndicatorSnapshot, price float64, cfg Config) model.Signal {
	trend, factors := trendScore(snap, price, cfg)
	momentum := momentumScore(snap, cfg)

	dir, reason := decide(inputs{trend: trend, momentum: momentum, flat: snap.Flat, cfg: cfg})

	sig := model.Signal{
		Direction:     dir,
		TrendScore:    trend,
		MomentumScore: momentum,
		Factors:       factors,
		Reason:        reason,
		ConfigVersion: cfg.Version,
	}
	if dir == model.DirectionNeutral {
		return sig
	}
	sig.ConfidencePercent = Confidence(dir, *trend, *momentum, snap.RSIChange, factors, cfg)
	sig.ProfitProbabilityPercent = ProfitProbability(sig.ConfidencePercent, snap.VolatilityPercent, cfg)
	return sig
}

// Confidence grows with how far trend and momentum clear their thresholds in
// the direction of the call. It is damped by ConflictDampening when the
// evidence disagrees: trend and momentum on opposite sides of neutral, or an
// RSI that is turning against the call. Trend components that contradict the
// call damp it further.
func Confidence(dir model.Direction, trend, momentum float64, rsiChange *float64, factors []model.FactorScore, cfg Config) float64 {
	upper, lower := cfg.TrendUpperThreshold, cfg.TrendLowerThreshold()
	var trendExcess, momExcess, side float64
	switch dir {
	case model.DirectionUp:
		side = 1
		trendExcess = (trend - upper) / (100 - upper)
		momExcess = (momentum - cfg.MomentumMin) / (1 - cfg.MomentumMin)
	case model.DirectionDown:
		side = -1
		trendExcess = (lower - trend) / lower
		momExcess = (-momentum - cfg.MomentumMin) / (1 - cfg.MomentumMin)
	default:
		return 0
	}
	trendExcess = clamp(trendExcess, 0, 1)
	momExcess = clamp(momExcess, 0, 1)

	wT, wM := cfg.ConfidenceTrendWeight, cfg.ConfidenceMomentumWeight
	evidence := (wT*trendExcess + wM*momExcess) / (wT + wM)
	raw := cfg.BaseConfidence + (1-cfg.BaseConfidence)*evidence

	turning := rsiChange != nil && sign(*rsiChange) == -side
	if sign(trend-50) != sign(momentum) || turning {
		raw *= cfg.ConflictDampening
	}
	if len(factors) > 0 {
		var against int
		for _, f := range factors {
			if sign(f.RawScore-50) == -side {
				against++
			}
		}
		raw *= 1 - cfg.ComponentConflictPenalty*float64(against)/float64(len(factors))
	}
	return clamp(raw*100, 0, 100)
}

// ProfitProbability discounts confidence by annualized volatility:
// p = min(MaxProbability, confidence / (1 + vol/VolatilityReference)).
// Without a volatility reading no discount is applied.
func ProfitProbability(confidence float64, volatilityPercent *float64, cfg Config) float64 {
	p := confidence
	if volatilityPercent != nil && *volatilityPercent > 0 {
		p = confidence / (1 + *volatilityPercent/cfg.VolatilityReference)
	}
	return clamp(p, 0, cfg.MaxProbability)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

