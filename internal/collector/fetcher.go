package collector

import (
	"context"
	"time"

	"SignalDesk/internal/model"
)

// Fetcher loads daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// ChainSource loads the current option chain of an underlying.
type ChainSource interface {
	FetchChain(ctx context.Context, symbol string) (*model.ChainSnapshot, error)
}

// EventCalendar knows upcoming corporate events.
type EventCalendar interface {
	NextEarnings(symbol string, from time.Time) (time.Time, bool)
}
