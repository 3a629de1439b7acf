// Package analyzer runs the per-instrument pipeline: indicators and levels
// feed the signal, which drives targets, option selection, sizing and risk,
// all assembled into one report.
package analyzer

import (
	"time"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/levels"
	"SignalDesk/internal/model"
	"SignalDesk/internal/options"
	"SignalDesk/internal/risk"
	"SignalDesk/internal/sizing"
	"SignalDesk/internal/strategy"
	"SignalDesk/internal/targets"
)

// Input is everything one instrument's analysis needs. Collaborators gather
// it up front so that Analyze performs no I/O.
type Input struct {
	Series         model.PriceSeries
	Chain          *model.ChainSnapshot
	IVHistory      []float64
	DaysToEarnings *int
	Capital        float64
	RiskFraction   float64
	AsOf           time.Time
	MarketStatus   string
	RunID          string
}

// Analyze validates the series and produces the report. Only an invalid
// series is an error; short histories and missing chains degrade to absent
// fields.
func Analyze(in Input, cfg Config) (model.AnalysisReport, error) {
	if err := in.Series.Validate(); err != nil {
		return model.AnalysisReport{}, err
	}
	price := in.Series.CurrentPrice()

	snap := calculator.ComputeSnapshot(in.Series, cfg.Indicators)
	lv := levels.Calculate(in.Series, cfg.Levels)
	sig := strategy.Evaluate(snap, price, cfg.Signal)
	pt := targets.Calculate(sig.Direction, price, lv, snap.VolatilityPercent, cfg.Targets)

	sel, hasOption := options.Select(options.Request{
		Symbol:    in.Series.Symbol,
		Direction: sig.Direction,
		Price:     price,
		Target:    pt.TargetPrice,
		Chain:     in.Chain,
		IVHistory: in.IVHistory,
	}, cfg.Options)

	position := sizing.Size(in.Capital, in.RiskFraction, price, pt.StopLoss)
	if sig.Direction == model.DirectionNeutral {
		position = sizing.Hold(in.Capital, in.RiskFraction)
	}

	parts := Parts{
		Input:    in,
		Snapshot: snap,
		Levels:   lv,
		Signal:   sig,
		Targets:  pt,
		Position: position,
		Risk:     risk.Assess(in.DaysToEarnings, pt.DaysToTarget),
	}
	if hasOption {
		parts.Selection = &sel
	}
	return Assemble(parts), nil
}
