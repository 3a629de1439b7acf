package model

// AnalysisReport is the complete per-instrument recommendation.
type AnalysisReport struct {
	BasicInfo           BasicInfo         `json:"basic_info"`
	SignalInfo          SignalInfo        `json:"signal_info"`
	PriceTargets        PriceTargets      `json:"price_targets"`
	TechnicalIndicators IndicatorSnapshot `json:"technical_indicators"`
	SupportResistance   SupportResistance `json:"support_resistance"`
	PositionSizing      PositionSizing    `json:"position_sizing"`
	OptionInfo          *OptionInfo       `json:"option_info,omitempty"`
	OptionPrices        *OptionPrices     `json:"option_prices,omitempty"`
	RiskFactors         RiskFactors       `json:"risk_factors"`
	Metadata            Metadata          `json:"metadata"`
}

// BasicInfo identifies the instrument and its latest prices.
type BasicInfo struct {
	Symbol            string   `json:"symbol"`
	CurrentPrice      float64  `json:"current_price"`
	PreviousClose     *float64 `json:"previous_close,omitempty"`
	ChangePercent     *float64 `json:"change_percent,omitempty"`
	VolatilityPercent *float64 `json:"volatility_percent,omitempty"`
	High52w           *float64 `json:"high_52w,omitempty"`
	Low52w            *float64 `json:"low_52w,omitempty"`
	RangePosition52w  *float64 `json:"range_position_52w,omitempty"`
}

// SignalInfo carries the actionable signal text alongside the raw signal.
type SignalInfo struct {
	Action string `json:"signal"`
	Signal
}

// SupportResistance lists level prices on either side of the current price.
type SupportResistance struct {
	SupportLevels     []float64 `json:"support_levels"`
	ResistanceLevels  []float64 `json:"resistance_levels"`
	NearestSupport    *float64  `json:"nearest_support,omitempty"`
	NearestResistance *float64  `json:"nearest_resistance,omitempty"`
}

// Metadata records provenance of a report.
type Metadata struct {
	Symbol              string `json:"symbol"`
	TradingSymbol       string `json:"trading_symbol,omitempty"`
	ExpiryDate          string `json:"expiry_date,omitempty"`
	AnalysisTimestamp   string `json:"analysis_timestamp"`
	MarketStatus        string `json:"market_status"`
	RunID               string `json:"run_id,omitempty"`
	SignalConfigVersion string `json:"signal_config_version"`
	Bars                int    `json:"bars"`
}
