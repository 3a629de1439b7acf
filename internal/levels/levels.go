// Package levels derives support and resistance prices from swing pivots in
// the closing-price history.
package levels

import (
	"fmt"
	"math"
	"sort"

	"SignalDesk/internal/model"
)

// Config controls pivot detection and clustering.
type Config struct {
	Window           int     `yaml:"window"`
	TolerancePercent float64 `yaml:"tolerance_percent"`
	TopK             int     `yaml:"top_k"`
}

// DefaultConfig returns the standard pivot settings.
func DefaultConfig() Config {
	return Config{Window: 5, TolerancePercent: 0.5, TopK: 3}
}

// Validate checks the pivot settings.
func (c Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("levels.window must be >= 1")
	}
	if c.TolerancePercent < 0 {
		return fmt.Errorf("levels.tolerance_percent must not be negative")
	}
	if c.TopK < 1 {
		return fmt.Errorf("levels.top_k must be >= 1")
	}
	return nil
}

type pivot struct {
	price float64
	index int
}

// Calculate finds the strongest levels on each side of the current close.
// Sides are decided on two-decimal prices, so supports stay strictly below
// and resistances strictly above the current price once reported. A level
// that rounds to the current price is dropped. Both lists are ascending and
// hold at most TopK entries.
func Calculate(series model.PriceSeries, cfg Config) model.Levels {
	out := model.Levels{Supports: []model.Level{}, Resistances: []model.Level{}}
	if series.Len() == 0 {
		return out
	}
	closes := series.Closes()
	current := model.Round2(closes[len(closes)-1])

	for _, lv := range cluster(pivots(closes, cfg.Window), cfg.TolerancePercent) {
		switch p := model.Round2(lv.Price); {
		case p < current:
			out.Supports = append(out.Supports, lv)
		case p > current:
			out.Resistances = append(out.Resistances, lv)
		}
	}
	out.Supports = strongest(out.Supports, cfg.TopK)
	out.Resistances = strongest(out.Resistances, cfg.TopK)
	return out
}

// pivots returns bars whose close is the highest or lowest within +/- window
// bars. Only bars with a full window on both sides qualify.
func pivots(closes []float64, window int) []pivot {
	var out []pivot
	for i := window; i+window < len(closes); i++ {
		isHigh, isLow := true, true
		for j := i - window; j <= i+window; j++ {
			if closes[j] > closes[i] {
				isHigh = false
			}
			if closes[j] < closes[i] {
				isLow = false
			}
		}
		if isHigh || isLow {
			out = append(out, pivot{price: closes[i], index: i})
		}
	}
	return out
}

// cluster merges pivots whose prices fall within tolerancePct of the running
// cluster mean.
func cluster(points []pivot, tolerancePct float64) []model.Level {
	if len(points) == 0 {
		return nil
	}
	sorted := make([]pivot, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].price < sorted[j].price })

	var (
		levels []model.Level
		sum    float64
		cur    model.Level
	)
	flush := func() {
		cur.Price = sum / float64(cur.Touches)
		levels = append(levels, cur)
	}
	for i, p := range sorted {
		if i > 0 {
			mean := sum / float64(cur.Touches)
			if math.Abs(p.price-mean)/mean*100 <= tolerancePct {
				sum += p.price
				cur.Touches++
				cur.LastIndex = max(cur.LastIndex, p.index)
				continue
			}
			flush()
		}
		sum = p.price
		cur = model.Level{Touches: 1, LastIndex: p.index}
	}
	flush()
	return levels
}

// strongest ranks by touch count then recency, keeps k, and re-sorts by price.
func strongest(levels []model.Level, k int) []model.Level {
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Touches != levels[j].Touches {
			return levels[i].Touches > levels[j].Touches
		}
		return levels[i].LastIndex > levels[j].LastIndex
	})
	if len(levels) > k {
		levels = levels[:k]
	}
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

// NearestSupport is the highest support, if any.
func NearestSupport(l model.Levels) (float64, bool) {
	if len(l.Supports) == 0 {
		return 0, false
	}
	return l.Supports[len(l.Supports)-1].Price, true
}

// NearestResistance is the lowest resistance, if any.
func NearestResistance(l model.Levels) (float64, bool) {
	if len(l.Resistances) == 0 {
		return 0, false
	}
	return l.Resistances[0].Price, true
}
