// Package metrics exposes Prometheus collectors for analysis runs.
package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"SignalDesk/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors. It implements analyzer.Observer.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: direction
	FailuresTotal    *prometheus.CounterVec // labels: reason
	AnalysisDuration prometheus.Histogram
	RunDuration      prometheus.Histogram
	RunsTotal        prometheus.Counter
	LastRunTimestamp prometheus.Gauge
	MarketOpen       prometheus.Gauge // 0=closed, 1=open
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_analyses_total",
			Help: "Reports produced, by signal direction",
		}, []string{"direction"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_analysis_failures_total",
			Help: "Instruments that produced no report",
		}, []string{"reason"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signaldesk_analysis_duration_seconds",
			Help:    "Per-instrument analysis latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signaldesk_run_duration_seconds",
			Help:    "End-to-end batch run latency including data fetch",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_runs_total",
			Help: "Completed batch runs",
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
		MarketOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_market_open",
			Help: "Market session state at the last run (0=closed, 1=open)",
		}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.FailuresTotal,
		m.AnalysisDuration,
		m.RunDuration,
		m.RunsTotal,
		m.LastRunTimestamp,
		m.MarketOpen,
	)
	return m
}

func (m *Metrics) ObserveReport(report model.AnalysisReport, elapsed time.Duration) {
	m.AnalysesTotal.WithLabelValues(string(report.SignalInfo.Direction)).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFailure(_ string, err error) {
	m.FailuresTotal.WithLabelValues(failureReason(err)).Inc()
}

// ObserveRun records a finished batch.
func (m *Metrics) ObserveRun(at time.Time, elapsed time.Duration, marketOpen bool) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	m.LastRunTimestamp.Set(float64(at.Unix()))
	if marketOpen {
		m.MarketOpen.Set(1)
	} else {
		m.MarketOpen.Set(0)
	}
}

func failureReason(err error) string {
	var invalid *model.InvalidSeriesError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &invalid):
		return "invalid_series"
	case errors.Is(err, ErrFetch):
		return "fetch"
	default:
		return "other"
	}
}

// ErrFetch marks failures that happened before analysis, while gathering data.
var ErrFetch = errors.New("data fetch failed")

// Health is the serializable view of the latest run.
type Health struct {
	StartedAt    time.Time `json:"started_at"`
	LastRunID    string    `json:"last_run_id,omitempty"`
	LastRunAt    time.Time `json:"last_run_at,omitempty"`
	LastReports  int       `json:"last_reports"`
	LastFailures int       `json:"last_failures"`
	SQLiteOK     bool      `json:"sqlite_ok"`
}

// HealthStatus tracks the outcome of the latest run for the health endpoint.
type HealthStatus struct {
	mu sync.RWMutex
	h  Health
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{h: Health{StartedAt: time.Now()}}
}

func (s *HealthStatus) SetRun(runID string, at time.Time, reports, failures int) {
	s.mu.Lock()
	s.h.LastRunID = runID
	s.h.LastRunAt = at
	s.h.LastReports = reports
	s.h.LastFailures = failures
	s.mu.Unlock()
}

func (s *HealthStatus) SetSQLiteOK(v bool) {
	s.mu.Lock()
	s.h.SQLiteOK = v
	s.mu.Unlock()
}

func (s *HealthStatus) Snapshot() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.h
}
