package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalDesk/internal/metrics"
	"SignalDesk/internal/model"
	"SignalDesk/internal/recorder"
)

type mockStore struct {
	reports []model.AnalysisReport
	err     error
}

func (m *mockStore) LatestReports(context.Context) ([]model.AnalysisReport, error) {
	return m.reports, m.err
}

func (m *mockStore) LatestReport(_ context.Context, symbol string) (*model.AnalysisReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.reports {
		if m.reports[i].BasicInfo.Symbol == strings.ToUpper(symbol) {
			return &m.reports[i], nil
		}
	}
	return nil, recorder.ErrNotFound
}

func newStore() *mockStore {
	return &mockStore{reports: []model.AnalysisReport{
		{BasicInfo: model.BasicInfo{Symbol: "INFY"}, SignalInfo: model.SignalInfo{Signal: model.Signal{Direction: model.DirectionUp}}},
		{BasicInfo: model.BasicInfo{Symbol: "TCS"}, SignalInfo: model.SignalInfo{Signal: model.Signal{Direction: model.DirectionNeutral}}},
	}}
}

func serve(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Reports(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(newStore(), metrics.NewHealthStatus(), nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{"all reports", "/api/v1/reports", http.StatusOK, 2},
		{"filtered by direction", "/api/v1/reports?direction=up", http.StatusOK, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, r, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			var got []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Len(t, got, tt.wantCount)
		})
	}
}

func TestRouter_ReportBySymbol(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(newStore(), metrics.NewHealthStatus(), nil)

	w := serve(t, r, "/api/v1/reports/infy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"symbol":"INFY"`)

	w = serve(t, r, "/api/v1/reports/WIPRO")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_StoreError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(&mockStore{err: errors.New("db locked")}, metrics.NewHealthStatus(), nil)

	w := serve(t, r, "/api/v1/reports")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"db locked"}`, w.Body.String())
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.RunsTotal.Inc()

	health := metrics.NewHealthStatus()
	health.SetRun("run-1", health.Snapshot().StartedAt, 2, 0)
	r := NewRouter(newStore(), health, reg)

	w := serve(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"last_run_id":"run-1"`)

	w = serve(t, r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signaldesk_runs_total 1")
}
