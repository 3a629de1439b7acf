package recorder

import (
	"context"
	"time"

	"SignalDesk/internal/model"
)

// FailureEvent records an instrument that could not be analyzed in a run.
type FailureEvent struct {
	RunID  string
	Symbol string
	Reason string
	At     time.Time
}

// IVObservation is one day's representative implied volatility for an underlying.
type IVObservation struct {
	Symbol string
	Date   time.Time
	IV     float64 // percent
}

// Recorder persists run history for later analysis and for IV percentile lookups.
type Recorder interface {
	RecordReport(ctx context.Context, report *model.AnalysisReport) error
	RecordFailure(ctx context.Context, evt *FailureEvent) error
	RecordIV(ctx context.Context, obs *IVObservation) error
	// IVHistory returns up to days observations before asOf, oldest first.
	IVHistory(ctx context.Context, symbol string, asOf time.Time, days int) ([]float64, error)
	LatestReports(ctx context.Context) ([]model.AnalysisReport, error)
	LatestReport(ctx context.Context, symbol string) (*model.AnalysisReport, error)
	Close() error
}

// ChainIV summarizes a chain into a single IV reading: the mean IV of quoted
// contracts. ok is false when no contract carries an IV.
func ChainIV(chain *model.ChainSnapshot) (iv float64, ok bool) {
	if chain == nil {
		return 0, false
	}
	var sum float64
	var n int
	for _, c := range chain.Contracts {
		if c.ImpliedVolatility > 0 {
			sum += c.ImpliedVolatility
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
