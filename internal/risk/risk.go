// Package risk grades event risk around a trade.
package risk

import "SignalDesk/internal/model"

// Earnings proximity thresholds in calendar days.
const (
	HighRiskDays   = 3
	MediumRiskDays = 10
)

// Assess grades earnings risk: High within 3 days, Medium within 10, Low
// otherwise. A missing date grades Unknown.
func Assess(daysToEarnings *int, daysToTarget int) model.RiskFactors {
	if daysToEarnings == nil {
		return model.RiskFactors{EarningsRisk: model.RiskUnknown}
	}
	d := *daysToEarnings
	out := model.RiskFactors{
		DaysToEarnings:       &d,
		EarningsBeforeTarget: d >= 0 && d <= daysToTarget,
	}
	switch {
	case d <= HighRiskDays:
		out.EarningsRisk = model.RiskHigh
	case d <= MediumRiskDays:
		out.EarningsRisk = model.RiskMedium
	default:
		out.EarningsRisk = model.RiskLow
	}
	return out
}
