package model

import "time"

// OptionType is the option right.
type OptionType string

const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// Label returns the display name used in trade instructions.
func (t OptionType) Label() string {
	switch t {
	case OptionCall:
		return "CALL"
	case OptionPut:
		return "PUT"
	default:
		return string(t)
	}
}

// Contract is one quoted option in a chain.
type Contract struct {
	Strike            float64    `json:"strike"`
	Type              OptionType `json:"type"`
	Expiry            time.Time  `json:"expiry"`
	LastPrice         float64    `json:"last_price"`
	ImpliedVolatility float64    `json:"implied_volatility"` // percent
	OpenInterest      float64    `json:"open_interest"`
	Volume            float64    `json:"volume"`
}

// ChainSnapshot is the option chain of one underlying for a single expiry.
type ChainSnapshot struct {
	Underlying string     `json:"underlying"`
	Expiry     time.Time  `json:"expiry"`
	Contracts  []Contract `json:"contracts"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Liquidity buckets open interest and volume of a contract.
type Liquidity string

const (
	LiquidityHigh     Liquidity = "High"
	LiquidityModerate Liquidity = "Moderate"
	LiquidityLow      Liquidity = "Low"
)

// OptionInfo describes the selected contract and chain-level statistics.
type OptionInfo struct {
	UnderlyingStrike     float64    `json:"underlying_strike"`
	Strike               float64    `json:"strike_price"`
	StrikeType           OptionType `json:"strike_type"`
	Expiry               string     `json:"expiry_date"`
	ImpliedVolatility    *float64   `json:"iv,omitempty"`
	IVPercentile         *float64   `json:"iv_percentile,omitempty"`
	MaxPainPrice         *float64   `json:"max_pain_price,omitempty"`
	OpenInterest         float64    `json:"open_interest"`
	Volume               float64    `json:"volume"`
	Liquidity            Liquidity  `json:"liquidity"`
	OpenInterestAnalysis string     `json:"open_interest_analysis"`
	TradingSymbol        string     `json:"trading_symbol"`
}

// OptionPrices are premium levels for the selected contract.
type OptionPrices struct {
	CurrentPremium float64 `json:"current_premium"`
	TargetPremium  float64 `json:"target_premium"`
	StopLoss       float64 `json:"stop_loss_premium"`
}
