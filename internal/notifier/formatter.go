package notifier

import (
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

func directionIcon(d model.Direction) string {
	switch d {
	case model.DirectionUp:
		return "🟢"
	case model.DirectionDown:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatRunSummary formats a batch run into a Telegram message: one line per
// actionable signal, a count of neutral ones and the failed symbols.
func FormatRunSummary(runID string, at time.Time, reports []model.AnalysisReport, failed []string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>SignalDesk</b> | %s\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n\n", runID))

	neutral := 0
	for i := range reports {
		r := &reports[i]
		if r.SignalInfo.Direction == model.DirectionNeutral {
			neutral++
			continue
		}
		b.WriteString(formatLine(r))
		b.WriteString("\n")
	}
	if neutral > 0 {
		b.WriteString(fmt.Sprintf("\n⚪ %d neutral\n", neutral))
	}
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("⚠️ failed: %s\n", strings.Join(failed, ", ")))
	}
	return b.String()
}

func formatLine(r *model.AnalysisReport) string {
	sig := r.SignalInfo
	line := fmt.Sprintf("%s <b>%s</b> %.2f → %.2f (SL %.2f) %.0f%%",
		directionIcon(sig.Direction), r.BasicInfo.Symbol, r.BasicInfo.CurrentPrice,
		r.PriceTargets.TargetPrice, r.PriceTargets.StopLoss, sig.ConfidencePercent)
	if r.Metadata.TradingSymbol != "" {
		line += " " + r.Metadata.TradingSymbol
	}
	return line
}

// FormatReport formats a single instrument report in detail.
func FormatReport(r *model.AnalysisReport) string {
	var b strings.Builder
	sig := r.SignalInfo

	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s\n\n", directionIcon(sig.Direction), r.BasicInfo.Symbol, sig.Action))
	b.WriteString(fmt.Sprintf("Price: %.2f", r.BasicInfo.CurrentPrice))
	if r.BasicInfo.ChangePercent != nil {
		b.WriteString(fmt.Sprintf(" (%+.2f%%)", *r.BasicInfo.ChangePercent))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Direction: %s | confidence %.0f%% | probability %.0f%%\n",
		sig.Direction, sig.ConfidencePercent, sig.ProfitProbabilityPercent))
	if sig.Reason != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", sig.Reason))
	}

	pt := r.PriceTargets
	b.WriteString(fmt.Sprintf("\n🎯 Target %.2f | Stop %.2f | R:R %.2f | ~%d days\n",
		pt.TargetPrice, pt.StopLoss, pt.RiskRewardRatio, pt.DaysToTarget))

	if r.OptionInfo != nil && r.OptionPrices != nil {
		b.WriteString(fmt.Sprintf("📄 %s | premium %.2f → %.2f (SL %.2f) | %s liquidity\n",
			r.OptionInfo.TradingSymbol, r.OptionPrices.CurrentPremium,
			r.OptionPrices.TargetPremium, r.OptionPrices.StopLoss, r.OptionInfo.Liquidity))
	}
	if r.PositionSizing.Recommendation != "" {
		b.WriteString(fmt.Sprintf("💰 %s\n", r.PositionSizing.Recommendation))
	}
	if rf := r.RiskFactors; rf.DaysToEarnings != nil {
		b.WriteString(fmt.Sprintf("📅 Earnings in %d days (%s risk)", *rf.DaysToEarnings, rf.EarningsRisk))
		if rf.EarningsBeforeTarget {
			b.WriteString(" ⚠️ before target")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAccount formats the sizing inputs for display.
func FormatAccount(state *model.AccountState) string {
	var b strings.Builder
	b.WriteString("📦 <b>Account</b>\n\n")
	b.WriteString(fmt.Sprintf("Capital: ₹%.0f\n", state.Capital))
	b.WriteString(fmt.Sprintf("Risk per trade: %.1f%%\n", state.RiskFraction*100))
	if state.LastRunID != "" {
		b.WriteString(fmt.Sprintf("Last run: %s (%s)\n", state.LastRunID, state.LastRunAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}
