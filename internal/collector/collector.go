package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.PriceBar
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days, time.Now()), nil
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   day.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Gathered is the raw material of one instrument's analysis.
type Gathered struct {
	Series         model.PriceSeries
	Chain          *model.ChainSnapshot
	DaysToEarnings *int
}

// Collector fetches everything an analysis needs for one symbol. Only the
// price history is mandatory; chain and calendar lookups degrade to absent.
type Collector struct {
	Fetcher  Fetcher
	Fallback Fetcher
	Chains   ChainSource
	Calendar EventCalendar
	Days     int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int) *Collector {
	return &Collector{Fetcher: fetcher, Days: days}
}

// Gather fetches history, the option chain and the next earnings date.
func (c *Collector) Gather(ctx context.Context, symbol string, now time.Time) (Gathered, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil && c.Fallback != nil {
		log.Printf("[WARN] %s: %s fetch failed: %v, trying %s", symbol, c.Fetcher.Name(), err, c.Fallback.Name())
		bars, err = c.Fallback.FetchDailyBars(ctx, symbol, c.Days)
	}
	if err != nil {
		return Gathered{}, fmt.Errorf("fetch daily bars: %w", err)
	}

	g := Gathered{Series: model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: now}}

	if c.Chains != nil {
		chain, err := c.Chains.FetchChain(ctx, symbol)
		switch {
		case errors.Is(err, ErrNoChain):
		case err != nil:
			log.Printf("[WARN] %s: option chain unavailable: %v", symbol, err)
		default:
			g.Chain = chain
		}
	}

	if c.Calendar != nil {
		if next, ok := c.Calendar.NextEarnings(symbol, now); ok {
			d := DaysUntil(now, next)
			g.DaysToEarnings = &d
		}
	}
	return g, nil
}
