package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySeries      = errors.New("series has no bars")
	ErrNonMonotonic     = errors.New("bar timestamps are not strictly increasing")
	ErrNonPositivePrice = errors.New("bar contains a non-positive price")
	ErrNegativeVolume   = errors.New("bar contains a negative volume")
)

// InvalidSeriesError reports a price series that violates structural invariants.
// It is fatal for the affected instrument only.
type InvalidSeriesError struct {
	Symbol string
	Index  int
	Reason error
}

func (e *InvalidSeriesError) Error() string {
	if errors.Is(e.Reason, ErrEmptySeries) {
		return fmt.Sprintf("invalid series %s: %v", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("invalid series %s at bar %d: %v", e.Symbol, e.Index, e.Reason)
}

func (e *InvalidSeriesError) Unwrap() error { return e.Reason }
