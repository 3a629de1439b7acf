// Package sizing computes fixed-fractional position sizes.
package sizing

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"

	"github.com/shopspring/decimal"
)

const noPosition = "No position"

// Size risks capital*riskFraction between entry and stop:
// quantity = floor(capitalAtRisk / |entry-stop|), capped so that
// quantity*entry never exceeds capital. A non-positive stop distance,
// capital, or entry yields quantity 0.
func Size(capital, riskFraction, entry, stop float64) model.PositionSizing {
	out := model.PositionSizing{Recommendation: noPosition}
	if capital <= 0 || riskFraction <= 0 || entry <= 0 {
		return out
	}
	out.CapitalAtRisk = capital * riskFraction

	distance := math.Abs(entry - stop)
	if distance <= 0 || math.IsNaN(distance) {
		return out
	}
	qty := math.Floor(out.CapitalAtRisk / distance)
	qty = math.Min(qty, affordable(capital, entry))
	if qty <= 0 {
		return out
	}

	out.Quantity = int(qty)
	out.PositionValue = qty * entry
	out.PortfolioFraction = out.PositionValue / capital * 100
	out.Recommendation = fmt.Sprintf("Max %d shares (₹%.2f, %.1f%% of portfolio)",
		out.Quantity, out.PositionValue, out.PortfolioFraction)
	return out
}

// Hold reports the risk budget without a quantity, for signals that call for
// no trade.
func Hold(capital, riskFraction float64) model.PositionSizing {
	out := model.PositionSizing{Recommendation: noPosition + " (HOLD)"}
	if capital > 0 && riskFraction > 0 {
		out.CapitalAtRisk = capital * riskFraction
	}
	return out
}

// affordable is the largest whole quantity whose float product with entry
// stays within capital. The division runs in decimal; the loop guards the
// float multiplication the report uses.
func affordable(capital, entry float64) float64 {
	qty := decimal.NewFromFloat(capital).Div(decimal.NewFromFloat(entry)).Floor().InexactFloat64()
	for qty > 0 && qty*entry > capital {
		qty--
	}
	return qty
}
