package model

// Direction is the recommended trade direction.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// FactorScore represents a single scoring component of the signal.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// Signal is the output of the signal generator.
type Signal struct {
	Direction                Direction     `json:"direction"`
	ConfidencePercent        float64       `json:"confidence_percent"`
	ProfitProbabilityPercent float64       `json:"profit_probability_percent"`
	TrendScore               *float64      `json:"trend_score,omitempty"`
	MomentumScore            *float64      `json:"momentum_score,omitempty"`
	Factors                  []FactorScore `json:"factors,omitempty"`
	Reason                   string        `json:"reason"`
	ConfigVersion            string        `json:"config_version"`
}

// PriceTargets are the directional exit levels for a signal.
type PriceTargets struct {
	TargetPrice        float64 `json:"target_price"`
	StopLoss           float64 `json:"stop_loss"`
	RiskRewardRatio    float64 `json:"risk_reward_ratio"`
	DaysToTarget       int     `json:"days_to_target"`
	UsedLevelForTarget bool    `json:"used_level_for_target"`
	UsedLevelForStop   bool    `json:"used_level_for_stop"`
}

// Level is a clustered support or resistance price.
type Level struct {
	Price     float64 `json:"price"`
	Touches   int     `json:"touches"`
	LastIndex int     `json:"last_index"`
}

// Levels holds supports strictly below and resistances strictly above the
// current price, each sorted ascending by price.
type Levels struct {
	Supports    []Level `json:"supports"`
	Resistances []Level `json:"resistances"`
}

// SupportPrices returns support prices in ascending order.
func (l Levels) SupportPrices() []float64 { return levelPrices(l.Supports) }

// ResistancePrices returns resistance prices in ascending order.
func (l Levels) ResistancePrices() []float64 { return levelPrices(l.Resistances) }

func levelPrices(levels []Level) []float64 {
	out := make([]float64, 0, len(levels))
	for _, lv := range levels {
		out = append(out, lv.Price)
	}
	return out
}

// PositionSizing is the suggested share quantity for a trade.
type PositionSizing struct {
	Quantity          int     `json:"quantity"`
	CapitalAtRisk     float64 `json:"capital_at_risk"`
	PositionValue     float64 `json:"position_value"`
	PortfolioFraction float64 `json:"portfolio_fraction_percent"`
	Recommendation    string  `json:"recommendation"`
}

// RiskLevel grades event risk.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "High"
	RiskMedium  RiskLevel = "Medium"
	RiskLow     RiskLevel = "Low"
	RiskUnknown RiskLevel = "Unknown"
)

// RiskFactors summarizes event risk around a trade.
type RiskFactors struct {
	DaysToEarnings       *int      `json:"days_to_earnings,omitempty"`
	EarningsRisk         RiskLevel `json:"earnings_risk"`
	EarningsBeforeTarget bool      `json:"earnings_before_target"`
}
