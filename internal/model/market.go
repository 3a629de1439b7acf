package model

import (
	"fmt"
	"math"
	"time"
)

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries holds the daily history of one instrument, oldest bar first.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Validate checks the structural invariants every analysis stage relies on.
func (s PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return &InvalidSeriesError{Symbol: s.Symbol, Reason: ErrEmptySeries}
	}
	for i, b := range s.Bars {
		for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return &InvalidSeriesError{Symbol: s.Symbol, Index: i, Reason: ErrNonPositivePrice}
			}
		}
		if b.Volume < 0 || math.IsNaN(b.Volume) {
			return &InvalidSeriesError{Symbol: s.Symbol, Index: i, Reason: ErrNegativeVolume}
		}
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return &InvalidSeriesError{Symbol: s.Symbol, Index: i, Reason: ErrNonMonotonic}
		}
	}
	return nil
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The series must not be empty.
func (s PriceSeries) Last() PriceBar { return s.Bars[len(s.Bars)-1] }

// CurrentPrice is the close of the most recent bar.
func (s PriceSeries) CurrentPrice() float64 { return s.Last().Close }

// PreviousClose returns the close before the latest bar, or false for a single-bar series.
func (s PriceSeries) PreviousClose() (float64, bool) {
	if len(s.Bars) < 2 {
		return 0, false
	}
	return s.Bars[len(s.Bars)-2].Close, true
}

// Closes extracts closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Close })
}

// Highs extracts high prices in series order.
func (s PriceSeries) Highs() []float64 {
	return s.column(func(b PriceBar) float64 { return b.High })
}

// Lows extracts low prices in series order.
func (s PriceSeries) Lows() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Low })
}

// Volumes extracts traded volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Volume })
}

func (s PriceSeries) column(pick func(PriceBar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = pick(b)
	}
	return out
}

func (s PriceSeries) String() string {
	if len(s.Bars) == 0 {
		return fmt.Sprintf("%s(empty)", s.Symbol)
	}
	return fmt.Sprintf("%s(%d bars, %s..%s)", s.Symbol, len(s.Bars),
		s.Bars[0].Time.Format("2006-01-02"), s.Last().Time.Format("2006-01-02"))
}
