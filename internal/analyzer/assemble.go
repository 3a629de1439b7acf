package analyzer

import (
	"time"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/levels"
	"SignalDesk/internal/model"
	"SignalDesk/internal/options"
)

// Parts are the stage outputs combined into a report.
type Parts struct {
	Input     Input
	Snapshot  model.IndicatorSnapshot
	Levels    model.Levels
	Signal    model.Signal
	Targets   model.PriceTargets
	Position  model.PositionSizing
	Risk      model.RiskFactors
	Selection *options.Selection
}

const holdAction = "HOLD"

// Assemble composes the report sections. Numeric fields are rounded to two
// decimals; optional sections are omitted when absent.
func Assemble(p Parts) model.AnalysisReport {
	series := p.Input.Series
	price := series.CurrentPrice()

	basic := model.BasicInfo{
		Symbol:            series.Symbol,
		CurrentPrice:      round2(price),
		VolatilityPercent: round2Ptr(p.Snapshot.VolatilityPercent),
	}
	if prev, ok := series.PreviousClose(); ok {
		basic.PreviousClose = round2Ptr(&prev)
		change := (price/prev - 1) * 100
		basic.ChangePercent = round2Ptr(&change)
	}
	if high, low, ok := calculator.Range52w(series.Bars); ok {
		pos := calculator.RangePosition(price, high, low)
		basic.High52w, basic.Low52w, basic.RangePosition52w = round2Ptr(&high), round2Ptr(&low), round2Ptr(&pos)
	}

	sig := p.Signal
	sig.ConfidencePercent = round2(sig.ConfidencePercent)
	sig.ProfitProbabilityPercent = round2(sig.ProfitProbabilityPercent)
	sig.TrendScore = round2Ptr(sig.TrendScore)
	sig.MomentumScore = round2Ptr(sig.MomentumScore)
	sig.Factors = roundFactors(sig.Factors)

	pt := p.Targets
	pt.TargetPrice = round2(pt.TargetPrice)
	pt.StopLoss = round2(pt.StopLoss)
	pt.RiskRewardRatio = round2(pt.RiskRewardRatio)

	pos := p.Position
	pos.CapitalAtRisk = round2(pos.CapitalAtRisk)
	pos.PositionValue = round2(pos.PositionValue)
	pos.PortfolioFraction = round2(pos.PortfolioFraction)

	sr := model.SupportResistance{
		SupportLevels:    round2All(p.Levels.SupportPrices()),
		ResistanceLevels: round2All(p.Levels.ResistancePrices()),
	}
	if v, ok := levels.NearestSupport(p.Levels); ok {
		sr.NearestSupport = round2Ptr(&v)
	}
	if v, ok := levels.NearestResistance(p.Levels); ok {
		sr.NearestResistance = round2Ptr(&v)
	}

	report := model.AnalysisReport{
		BasicInfo:           basic,
		SignalInfo:          model.SignalInfo{Action: holdAction, Signal: sig},
		PriceTargets:        pt,
		TechnicalIndicators: roundSnapshot(p.Snapshot),
		SupportResistance:   sr,
		PositionSizing:      pos,
		RiskFactors:         p.Risk,
		Metadata: model.Metadata{
			Symbol:              series.Symbol,
			AnalysisTimestamp:   p.Input.AsOf.Format(time.RFC3339),
			MarketStatus:        p.Input.MarketStatus,
			RunID:               p.Input.RunID,
			SignalConfigVersion: sig.ConfigVersion,
			Bars:                series.Len(),
		},
	}

	if sel := p.Selection; sel != nil {
		info := sel.Info
		info.UnderlyingStrike = round2(info.UnderlyingStrike)
		info.Strike = round2(info.Strike)
		info.ImpliedVolatility = round2Ptr(info.ImpliedVolatility)
		info.IVPercentile = round2Ptr(info.IVPercentile)
		info.MaxPainPrice = round2Ptr(info.MaxPainPrice)
		report.OptionInfo = &info

		if sel.Prices.CurrentPremium > 0 {
			report.OptionPrices = &model.OptionPrices{
				CurrentPremium: round2(sel.Prices.CurrentPremium),
				TargetPremium:  round2(sel.Prices.TargetPremium),
				StopLoss:       round2(sel.Prices.StopLoss),
			}
		}
		report.SignalInfo.Action = sel.Action
		report.Metadata.TradingSymbol = info.TradingSymbol
		report.Metadata.ExpiryDate = info.Expiry
	}
	return report
}

func round2(v float64) float64 { return model.Round2(v) }

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

func round2All(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round2(v)
	}
	return out
}

func roundFactors(fs []model.FactorScore) []model.FactorScore {
	if fs == nil {
		return nil
	}
	out := make([]model.FactorScore, len(fs))
	for i, f := range fs {
		f.RawScore = round2(f.RawScore)
		f.Weighted = round2(f.Weighted)
		out[i] = f
	}
	return out
}

func roundSnapshot(s model.IndicatorSnapshot) model.IndicatorSnapshot {
	for _, field := range []**float64{
		&s.RSI, &s.RSIChange, &s.MACD, &s.MACDSignal, &s.MACDHistogram, &s.ADX, &s.PlusDI, &s.MinusDI,
		&s.SMA20, &s.SMA50, &s.SMA200, &s.EMA21, &s.ATR, &s.VolatilityPercent, &s.VolumeChangePercent,
	} {
		*field = round2Ptr(*field)
	}
	return s
}
