package strategy

import (
	"math"
	"testing"

	"SignalDesk/internal/model"
)

func f(v float64) *float64 { return &v }

func bullishSnapshot() model.IndicatorSnapshot {
	return model.IndicatorSnapshot{
		RSI:               f(78),
		RSIChange:         f(6),
		MACD:              f(1.2),
		MACDSignal:        f(0.8),
		MACDHistogram:     f(0.4),
		ADX:               f(35),
		PlusDI:            f(32),
		MinusDI:           f(12),
		SMA20:             f(102),
		SMA50:             f(99),
		EMA21:             f(102.5),
		VolatilityPercent: f(18),
	}
}

func bearishSnapshot() model.IndicatorSnapshot {
	return model.IndicatorSnapshot{
		RSI:               f(22),
		RSIChange:         f(-6),
		MACD:              f(-1.2),
		MACDSignal:        f(-0.8),
		MACDHistogram:     f(-0.4),
		ADX:               f(35),
		PlusDI:            f(12),
		MinusDI:           f(32),
		SMA20:             f(98),
		SMA50:             f(101),
		EMA21:             f(97.5),
		VolatilityPercent: f(18),
	}
}

func TestEvaluate_AllIndicatorsMissing(t *testing.T) {
	sig := Evaluate(model.IndicatorSnapshot{}, 100, DefaultConfig())
	if sig.Direction != model.DirectionNeutral {
		t.Fatalf("expected NEUTRAL, got %s", sig.Direction)
	}
	if sig.ConfidencePercent != 0 || sig.ProfitProbabilityPercent != 0 {
		t.Errorf("expected zero confidence/probability, got %.2f/%.2f", sig.ConfidencePercent, sig.ProfitProbabilityPercent)
	}
	if sig.TrendScore != nil || sig.MomentumScore != nil {
		t.Error("expected nil scores without indicators")
	}
}

func TestEvaluate_FlatSeries(t *testing.T) {
	snap := model.IndicatorSnapshot{
		RSI: f(50), RSIChange: f(0), MACD: f(0), MACDSignal: f(0), MACDHistogram: f(0),
		ADX: f(0), PlusDI: f(0), MinusDI: f(0), SMA20: f(100), VolatilityPercent: f(0),
		Flat: true,
	}
	sig := Evaluate(snap, 100, DefaultConfig())
	if sig.Direction != model.DirectionNeutral {
		t.Fatalf("expected NEUTRAL, got %s", sig.Direction)
	}
	if sig.ConfidencePercent != 0 {
		t.Errorf("expected confidence 0, got %.2f", sig.ConfidencePercent)
	}
	if sig.Reason != "flat price series" {
		t.Errorf("unexpected reason %q", sig.Reason)
	}
}

func TestEvaluate_Bullish(t *testing.T) {
	sig := Evaluate(bullishSnapshot(), 104, DefaultConfig())
	if sig.Direction != model.DirectionUp {
		t.Fatalf("expected UP, got %s (trend=%v momentum=%v)", sig.Direction, *sig.TrendScore, *sig.MomentumScore)
	}
	if sig.ConfidencePercent <= 0 || sig.ConfidencePercent > 100 {
		t.Errorf("confidence out of range: %.2f", sig.ConfidencePercent)
	}
	if sig.ProfitProbabilityPercent > sig.ConfidencePercent {
		t.Errorf("probability %.2f exceeds confidence %.2f", sig.ProfitProbabilityPercent, sig.ConfidencePercent)
	}
	if len(sig.Factors) != 3 {
		t.Errorf("expected 3 trend factors, got %d", len(sig.Factors))
	}
	if sig.ConfigVersion != "v1" {
		t.Errorf("expected config version v1, got %q", sig.ConfigVersion)
	}
}

func TestEvaluate_BearishMirrorsBullish(t *testing.T) {
	up := Evaluate(bullishSnapshot(), 104, DefaultConfig())
	down := Evaluate(bearishSnapshot(), 96, DefaultConfig())
	if down.Direction != model.DirectionDown {
		t.Fatalf("expected DOWN, got %s", down.Direction)
	}
	if *down.MomentumScore >= 0 {
		t.Errorf("expected negative momentum, got %.3f", *down.MomentumScore)
	}
	if *up.TrendScore <= 50 || *down.TrendScore >= 50 {
		t.Errorf("trend scores not on opposite sides: up=%.2f down=%.2f", *up.TrendScore, *down.TrendScore)
	}
}

func TestEvaluate_TrendWithoutMomentumStaysNeutral(t *testing.T) {
	snap := bullishSnapshot()
	snap.RSI = f(45)
	snap.RSIChange = f(-2)
	sig := Evaluate(snap, 104, DefaultConfig())
	if sig.Direction != model.DirectionNeutral {
		t.Errorf("expected NEUTRAL when momentum disagrees, got %s", sig.Direction)
	}
}

func TestEvaluate_ScoreBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, rsi := range []float64{0, 10, 30, 50, 70, 90, 100} {
		for _, macd := range []float64{-50, -1, 0, 1, 50} {
			for _, adx := range []float64{0, 20, 60, 100} {
				snap := model.IndicatorSnapshot{
					RSI: f(rsi), RSIChange: f(rsi - 50), MACD: f(macd), MACDHistogram: f(macd / 2),
					ADX: f(adx), PlusDI: f(adx / 2), MinusDI: f(25), SMA20: f(100 - macd),
					VolatilityPercent: f(adx),
				}
				sig := Evaluate(snap, 100, cfg)
				if *sig.TrendScore < 0 || *sig.TrendScore > 100 {
					t.Errorf("trend score %.2f out of [0,100]", *sig.TrendScore)
				}
				if *sig.MomentumScore < -1 || *sig.MomentumScore > 1 {
					t.Errorf("momentum score %.3f out of [-1,1]", *sig.MomentumScore)
				}
				if sig.ConfidencePercent < 0 || sig.ConfidencePercent > 100 {
					t.Errorf("confidence %.2f out of [0,100]", sig.ConfidencePercent)
				}
				if sig.ProfitProbabilityPercent < 0 || sig.ProfitProbabilityPercent > cfg.MaxProbability {
					t.Errorf("probability %.2f out of range", sig.ProfitProbabilityPercent)
				}
			}
		}
	}
}

func TestConfidence_DampenedOnDisagreement(t *testing.T) {
	cfg := DefaultConfig()
	agree := Confidence(model.DirectionUp, 80, 0.6, nil, nil, cfg)
	disagree := Confidence(model.DirectionUp, 80, -0.6, nil, nil, cfg)
	if disagree >= agree {
		t.Errorf("expected dampened confidence, got agree=%.2f disagree=%.2f", agree, disagree)
	}

	factors := []model.FactorScore{{RawScore: 90}, {RawScore: 20}}
	mixed := Confidence(model.DirectionUp, 80, 0.6, nil, factors, cfg)
	if mixed >= agree {
		t.Errorf("expected contradicting component to reduce confidence, got %.2f vs %.2f", mixed, agree)
	}
	if got := Confidence(model.DirectionNeutral, 80, 0.6, nil, nil, cfg); got != 0 {
		t.Errorf("expected 0 for neutral, got %.2f", got)
	}
}

func TestEvaluate_RSITurningAgainstCallDampens(t *testing.T) {
	cfg := DefaultConfig()
	snap := bullishSnapshot()
	snap.RSIChange = f(-6)

	sig := Evaluate(snap, 104, cfg)
	if sig.Direction != model.DirectionUp {
		t.Fatalf("expected UP, got %s (momentum=%v)", sig.Direction, *sig.MomentumScore)
	}
	undamped := Confidence(sig.Direction, *sig.TrendScore, *sig.MomentumScore, nil, sig.Factors, cfg)
	want := undamped * cfg.ConflictDampening
	if math.Abs(sig.ConfidencePercent-want) > 1e-9 {
		t.Errorf("expected dampened confidence %.4f, got %.4f", want, sig.ConfidencePercent)
	}

	steady := Evaluate(bullishSnapshot(), 104, cfg)
	if sig.ConfidencePercent >= steady.ConfidencePercent {
		t.Errorf("turning RSI %.2f should be below steady %.2f", sig.ConfidencePercent, steady.ConfidencePercent)
	}
}

func TestProfitProbability_DecreasesWithVolatility(t *testing.T) {
	cfg := DefaultConfig()
	prev := ProfitProbability(80, nil, cfg)
	if prev != 80 {
		t.Fatalf("expected undiscounted 80, got %.2f", prev)
	}
	for _, vol := range []float64{5, 15, 30, 60, 120} {
		p := ProfitProbability(80, f(vol), cfg)
		if p >= prev {
			t.Errorf("vol=%.0f: probability %.2f did not fall below %.2f", vol, p, prev)
		}
		prev = p
	}
	if got := ProfitProbability(100, nil, cfg); got != cfg.MaxProbability {
		t.Errorf("expected cap at %.0f, got %.2f", cfg.MaxProbability, got)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing version", func(c *Config) { c.Version = "" }},
		{"threshold below neutral", func(c *Config) { c.TrendUpperThreshold = 45 }},
		{"negative weight", func(c *Config) { c.MAPositionWeight = -1 }},
		{"momentum min too large", func(c *Config) { c.MomentumMin = 1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}
