package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"SignalDesk/internal/model"
)

func TestMetrics_ObserveOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	up := model.AnalysisReport{SignalInfo: model.SignalInfo{Signal: model.Signal{Direction: model.DirectionUp}}}
	m.ObserveReport(up, 3*time.Millisecond)
	m.ObserveReport(up, 2*time.Millisecond)
	m.ObserveFailure("BAD", &model.InvalidSeriesError{Symbol: "BAD", Reason: model.ErrEmptySeries})
	m.ObserveFailure("LATE", context.Canceled)
	m.ObserveFailure("DOWN", fmt.Errorf("%w: timeout", ErrFetch))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("UP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailuresTotal.WithLabelValues("invalid_series")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailuresTotal.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailuresTotal.WithLabelValues("fetch")))
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	at := time.Unix(1744280000, 0)
	m.ObserveRun(at, 4*time.Second, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastRunTimestamp))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MarketOpen))
}

func TestHealthStatus_Snapshot(t *testing.T) {
	h := NewHealthStatus()
	h.SetRun("run-9", time.Unix(10, 0), 4, 1)
	h.SetSQLiteOK(true)

	s := h.Snapshot()
	assert.Equal(t, "run-9", s.LastRunID)
	assert.Equal(t, 4, s.LastReports)
	assert.Equal(t, 1, s.LastFailures)
	assert.True(t, s.SQLiteOK)
}
