// Package options picks the option contract that expresses a directional
// signal and derives chain statistics around it.
package options

import (
	"fmt"
	"math"
	"sort"

	"SignalDesk/internal/model"
)

// Config controls strike selection and premium exits.
type Config struct {
	MoneynessOffset     int     `yaml:"moneyness_offset"`
	MinOpenInterest     float64 `yaml:"min_open_interest"`
	MinVolume           float64 `yaml:"min_volume"`
	PremiumTargetFactor float64 `yaml:"premium_target_factor"`
	PremiumStopFactor   float64 `yaml:"premium_stop_factor"`
}

// DefaultConfig selects one strike out of the money and accepts any contract.
func DefaultConfig() Config {
	return Config{
		MoneynessOffset:     1,
		PremiumTargetFactor: 2,
		PremiumStopFactor:   0.7,
	}
}

// Validate checks selection settings.
func (c Config) Validate() error {
	if c.MoneynessOffset < 0 {
		return fmt.Errorf("options.moneyness_offset must not be negative")
	}
	if c.MinOpenInterest < 0 || c.MinVolume < 0 {
		return fmt.Errorf("options: liquidity minimums must not be negative")
	}
	if c.PremiumTargetFactor <= 0 {
		return fmt.Errorf("options.premium_target_factor must be positive")
	}
	if c.PremiumStopFactor <= 0 || c.PremiumStopFactor >= 1 {
		return fmt.Errorf("options.premium_stop_factor must be in (0, 1)")
	}
	return nil
}

// Request bundles everything the selector looks at.
type Request struct {
	Symbol    string
	Direction model.Direction
	Price     float64
	Target    float64
	Chain     *model.ChainSnapshot
	IVHistory []float64
}

// Selection is the chosen contract with its derived report sections.
type Selection struct {
	Contract model.Contract
	Info     model.OptionInfo
	Prices   model.OptionPrices
	Action   string
}

// TypeFor maps a direction to the option right that profits from it.
func TypeFor(dir model.Direction) (model.OptionType, bool) {
	switch dir {
	case model.DirectionUp:
		return model.OptionCall, true
	case model.DirectionDown:
		return model.OptionPut, true
	}
	return "", false
}

// Select picks a contract for the request. ok is false for a Neutral signal,
// a missing chain, or when no contract of the right type passes the
// liquidity filters.
func Select(req Request, cfg Config) (Selection, bool) {
	optType, ok := TypeFor(req.Direction)
	if !ok || req.Chain == nil || req.Price <= 0 {
		return Selection{}, false
	}

	candidates := liquidContracts(req.Chain.Contracts, optType, cfg)
	if len(candidates) == 0 {
		return Selection{}, false
	}
	strikes := distinctStrikes(candidates)
	atm := closestIndex(strikes, req.Price)

	idx := atm + cfg.MoneynessOffset
	if optType == model.OptionPut {
		idx = atm - cfg.MoneynessOffset
	}
	idx = max(0, min(len(strikes)-1, idx))

	contract := contractAt(candidates, strikes[idx])
	expiry := contract.Expiry
	if expiry.IsZero() {
		expiry = req.Chain.Expiry
	}
	if expiry.IsZero() {
		expiry = MonthlyExpiry(req.Chain.FetchedAt)
	}
	contract.Expiry = expiry

	liquidity := ClassifyLiquidity(contract.OpenInterest, contract.Volume)
	analysis := fmt.Sprintf("OI: %.0f, Volume: %.0f. %s liquidity.", contract.OpenInterest, contract.Volume, liquidity)
	info := model.OptionInfo{
		UnderlyingStrike:     strikes[atm],
		Strike:               contract.Strike,
		StrikeType:           optType,
		Expiry:               expiry.Format("2006-01-02"),
		OpenInterest:         contract.OpenInterest,
		Volume:               contract.Volume,
		Liquidity:            liquidity,
		OpenInterestAnalysis: analysis,
		TradingSymbol:        TradingSymbol(req.Symbol, expiry, contract.Strike, optType),
	}
	if contract.ImpliedVolatility > 0 {
		iv := contract.ImpliedVolatility
		info.ImpliedVolatility = &iv
		if p, ok := IVPercentile(iv, req.IVHistory); ok {
			info.IVPercentile = &p
		}
	}
	if mp, ok := MaxPain(req.Chain.Contracts, req.Price); ok {
		info.MaxPainPrice = &mp
	}

	return Selection{
		Contract: contract,
		Info:     info,
		Prices:   PremiumExits(contract.LastPrice, req.Price, req.Target, cfg),
		Action:   fmt.Sprintf("Buy %s Option", optType.Label()),
	}, true
}

// PremiumExits scales the premium by twice the expected underlying move for
// the target, and cuts it by the stop factor for the stop-loss.
func PremiumExits(premium, price, target float64, cfg Config) model.OptionPrices {
	if premium <= 0 || price <= 0 {
		return model.OptionPrices{}
	}
	move := math.Abs(target-price) / price
	return model.OptionPrices{
		CurrentPremium: premium,
		TargetPremium:  premium * (1 + cfg.PremiumTargetFactor*move),
		StopLoss:       premium * cfg.PremiumStopFactor,
	}
}

func liquidContracts(contracts []model.Contract, t model.OptionType, cfg Config) []model.Contract {
	var out []model.Contract
	for _, c := range contracts {
		if c.Type != t || c.Strike <= 0 {
			continue
		}
		if c.OpenInterest < cfg.MinOpenInterest || c.Volume < cfg.MinVolume {
			continue
		}
		out = append(out, c)
	}
	return out
}

func distinctStrikes(contracts []model.Contract) []float64 {
	seen := make(map[float64]struct{}, len(contracts))
	strikes := make([]float64, 0, len(contracts))
	for _, c := range contracts {
		if _, ok := seen[c.Strike]; ok {
			continue
		}
		seen[c.Strike] = struct{}{}
		strikes = append(strikes, c.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// closestIndex returns the index of the strike nearest price; ties go to the lower strike.
func closestIndex(strikes []float64, price float64) int {
	best := 0
	for i, s := range strikes {
		if math.Abs(s-price) < math.Abs(strikes[best]-price) {
			best = i
		}
	}
	return best
}

// contractAt returns the most liquid contract listed at strike.
func contractAt(contracts []model.Contract, strike float64) model.Contract {
	var best model.Contract
	found := false
	for _, c := range contracts {
		if c.Strike != strike {
			continue
		}
		if !found || c.OpenInterest > best.OpenInterest {
			best, found = c, true
		}
	}
	return best
}
