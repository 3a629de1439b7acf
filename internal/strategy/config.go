package strategy

import "fmt"

// Config holds every weight and threshold of the signal generator. Version is
// stamped on each signal so recorded reports can be traced to the settings
// that produced them.
type Config struct {
	Version string `yaml:"version"`

	// Trend components, each scored 0~100 with 50 as neutral.
	DirectionalWeight float64 `yaml:"directional_weight"`
	TrendLineWeight   float64 `yaml:"trend_line_weight"`
	MAPositionWeight  float64 `yaml:"ma_position_weight"`
	ADXFullScale      float64 `yaml:"adx_full_scale"`
	MACDScale         float64 `yaml:"macd_scale"`
	MACDSlopeScale    float64 `yaml:"macd_slope_scale"`
	MAScale           float64 `yaml:"ma_scale"`

	// TrendUpperThreshold is mirrored around 50 for the bearish side.
	TrendUpperThreshold float64 `yaml:"trend_upper_threshold"`

	MomentumLevelWeight  float64 `yaml:"momentum_level_weight"`
	MomentumChangeWeight float64 `yaml:"momentum_change_weight"`
	RSIChangeScale       float64 `yaml:"rsi_change_scale"`
	MomentumMin          float64 `yaml:"momentum_min"`

	ConfidenceTrendWeight    float64 `yaml:"confidence_trend_weight"`
	ConfidenceMomentumWeight float64 `yaml:"confidence_momentum_weight"`
	BaseConfidence           float64 `yaml:"base_confidence"`
	// ConflictDampening applies when the RSI turns against the call or the
	// trend and momentum scores disagree.
	ConflictDampening        float64 `yaml:"conflict_dampening"`
	ComponentConflictPenalty float64 `yaml:"component_conflict_penalty"`

	VolatilityReference float64 `yaml:"volatility_reference"`
	MaxProbability      float64 `yaml:"max_probability"`
}

// DefaultConfig returns the v1 weights.
func DefaultConfig() Config {
	return Config{
		Version: "v1",

		DirectionalWeight: 0.40,
		TrendLineWeight:   0.35,
		MAPositionWeight:  0.25,
		ADXFullScale:      50,
		MACDScale:         5000,
		MACDSlopeScale:    2500,
		MAScale:           2000,

		TrendUpperThreshold: 60,

		MomentumLevelWeight:  0.7,
		MomentumChangeWeight: 0.3,
		RSIChangeScale:       20,
		MomentumMin:          0.10,

		ConfidenceTrendWeight:    0.6,
		ConfidenceMomentumWeight: 0.4,
		BaseConfidence:           0.25,
		ConflictDampening:        0.5,
		ComponentConflictPenalty: 0.5,

		VolatilityReference: 50,
		MaxProbability:      85,
	}
}

// TrendLowerThreshold mirrors the upper threshold around the neutral 50.
func (c Config) TrendLowerThreshold() float64 { return 100 - c.TrendUpperThreshold }

// Validate checks that weights and thresholds are usable.
func (c Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("signal.version is required")
	}
	for name, w := range map[string]float64{
		"directional_weight":         c.DirectionalWeight,
		"trend_line_weight":          c.TrendLineWeight,
		"ma_position_weight":         c.MAPositionWeight,
		"momentum_level_weight":      c.MomentumLevelWeight,
		"momentum_change_weight":     c.MomentumChangeWeight,
		"confidence_trend_weight":    c.ConfidenceTrendWeight,
		"confidence_momentum_weight": c.ConfidenceMomentumWeight,
	} {
		if w < 0 {
			return fmt.Errorf("signal.%s must not be negative", name)
		}
	}
	if c.DirectionalWeight+c.TrendLineWeight+c.MAPositionWeight <= 0 {
		return fmt.Errorf("signal: trend weights must not all be zero")
	}
	if c.MomentumLevelWeight <= 0 {
		return fmt.Errorf("signal.momentum_level_weight must be positive")
	}
	if c.ConfidenceTrendWeight+c.ConfidenceMomentumWeight <= 0 {
		return fmt.Errorf("signal: confidence weights must not both be zero")
	}
	if c.TrendUpperThreshold <= 50 || c.TrendUpperThreshold >= 100 {
		return fmt.Errorf("signal.trend_upper_threshold must be in (50, 100)")
	}
	if c.MomentumMin < 0 || c.MomentumMin >= 1 {
		return fmt.Errorf("signal.momentum_min must be in [0, 1)")
	}
	if c.ADXFullScale <= 0 || c.RSIChangeScale <= 0 || c.VolatilityReference <= 0 {
		return fmt.Errorf("signal: adx_full_scale, rsi_change_scale and volatility_reference must be positive")
	}
	if c.BaseConfidence < 0 || c.BaseConfidence > 1 {
		return fmt.Errorf("signal.base_confidence must be in [0, 1]")
	}
	if c.ConflictDampening < 0 || c.ConflictDampening > 1 || c.ComponentConflictPenalty < 0 || c.ComponentConflictPenalty > 1 {
		return fmt.Errorf("signal: conflict_dampening and component_conflict_penalty must be in [0, 1]")
	}
	if c.MaxProbability <= 0 || c.MaxProbability > 100 {
		return fmt.Errorf("signal.max_probability must be in (0, 100]")
	}
	return nil
}
