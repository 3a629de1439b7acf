package recorder

import (
	"context"
	"time"

	"SignalDesk/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(context.Context, *model.AnalysisReport) error { return nil }
func (n *NoopRecorder) RecordFailure(context.Context, *FailureEvent) error        { return nil }
func (n *NoopRecorder) RecordIV(context.Context, *IVObservation) error            { return nil }

func (n *NoopRecorder) IVHistory(context.Context, string, time.Time, int) ([]float64, error) {
	return nil, nil
}

func (n *NoopRecorder) LatestReports(context.Context) ([]model.AnalysisReport, error) {
	return nil, nil
}

func (n *NoopRecorder) LatestReport(context.Context, string) (*model.AnalysisReport, error) {
	return nil, ErrNotFound
}

func (n *NoopRecorder) Close() error { return nil }
