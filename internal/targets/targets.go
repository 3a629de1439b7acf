// Package targets turns a signal and nearby levels into a target, a stop-loss
// and the reward-to-risk of the trade.
package targets

import (
	"fmt"
	"math"

	"SignalDesk/internal/levels"
	"SignalDesk/internal/model"
)

// Config tunes volatility-scaled distances.
type Config struct {
	BufferMultiplier   float64 `yaml:"buffer_multiplier"`
	FallbackMultiplier float64 `yaml:"fallback_multiplier"`
	MinDistancePercent float64 `yaml:"min_distance_percent"`
	AnnualizationDays  int     `yaml:"annualization_days"`
}

// DefaultConfig returns the standard multipliers.
func DefaultConfig() Config {
	return Config{
		BufferMultiplier:   0.25,
		FallbackMultiplier: 2,
		MinDistancePercent: 0.5,
		AnnualizationDays:  252,
	}
}

// Validate checks the multipliers.
func (c Config) Validate() error {
	if c.BufferMultiplier < 0 {
		return fmt.Errorf("targets.buffer_multiplier must not be negative")
	}
	if c.FallbackMultiplier <= 0 {
		return fmt.Errorf("targets.fallback_multiplier must be positive")
	}
	if c.MinDistancePercent <= 0 {
		return fmt.Errorf("targets.min_distance_percent must be positive")
	}
	if c.AnnualizationDays <= 0 {
		return fmt.Errorf("targets.annualization_days must be positive")
	}
	return nil
}

// minDenominator is the smallest stop distance that survives 2-dp rounding.
const minDenominator = 0.005

// tick is the smallest reported price step.
const tick = 0.01

// DailyMove converts annualized volatility into one day's expected price move,
// floored at MinDistancePercent of price so that missing, zero or negligible
// volatility still yields usable distances.
func DailyMove(price float64, volatilityPercent *float64, cfg Config) float64 {
	floor := price * cfg.MinDistancePercent / 100
	if volatilityPercent == nil || *volatilityPercent <= 0 {
		return floor
	}
	daily := *volatilityPercent / math.Sqrt(float64(cfg.AnnualizationDays))
	return math.Max(price*daily/100, floor)
}

// Calculate derives target and stop. For Up the target sits above and the stop
// below the current price; Down mirrors it. Neutral gets a symmetric band.
func Calculate(dir model.Direction, price float64, lv model.Levels, volatilityPercent *float64, cfg Config) model.PriceTargets {
	unit := DailyMove(price, volatilityPercent, cfg)
	buffer := cfg.BufferMultiplier * unit
	fallback := math.Max(cfg.FallbackMultiplier*unit, tick)

	// A level only anchors the trade when it stays on its side at two decimals.
	support, hasSupport := levels.NearestSupport(lv)
	hasSupport = hasSupport && model.Round2(support) < model.Round2(price)
	resistance, hasResistance := levels.NearestResistance(lv)
	hasResistance = hasResistance && model.Round2(resistance) > model.Round2(price)

	var out model.PriceTargets
	switch dir {
	case model.DirectionUp:
		out.TargetPrice, out.UsedLevelForTarget = price+fallback, false
		if hasResistance {
			out.TargetPrice, out.UsedLevelForTarget = resistance+buffer, true
		}
		out.StopLoss, out.UsedLevelForStop = price-fallback, false
		if hasSupport {
			out.StopLoss, out.UsedLevelForStop = support, true
		}
	case model.DirectionDown:
		out.TargetPrice, out.UsedLevelForTarget = price-fallback, false
		if hasSupport {
			out.TargetPrice, out.UsedLevelForTarget = support-buffer, true
		}
		out.StopLoss, out.UsedLevelForStop = price+fallback, false
		if hasResistance {
			out.StopLoss, out.UsedLevelForStop = resistance, true
		}
	default:
		out.TargetPrice = price + fallback
		out.StopLoss = price - fallback
	}
	// Keep prices positive for deep downside targets on volatile names.
	out.TargetPrice = math.Max(out.TargetPrice, minDenominator)
	out.StopLoss = math.Max(out.StopLoss, minDenominator)

	out.RiskRewardRatio = RiskReward(price, out.TargetPrice, out.StopLoss)
	out.DaysToTarget = DaysToTarget(price, out.TargetPrice, unit)
	return out
}

// RiskReward is |target-price| / |price-stop|, or 0 when the stop distance
// rounds to zero.
func RiskReward(price, target, stop float64) float64 {
	den := math.Abs(price - stop)
	if den < minDenominator {
		return 0
	}
	return math.Abs(target-price) / den
}

// DaysToTarget estimates sessions needed to cover the distance at one daily
// move per session, never less than one.
func DaysToTarget(price, target, dailyMove float64) int {
	if dailyMove <= 0 {
		return 1
	}
	days := int(math.Round(math.Abs(target-price) / dailyMove))
	return max(1, days)
}
