// Package server exposes recorded reports and metrics over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"SignalDesk/internal/metrics"
	"SignalDesk/internal/model"
	"SignalDesk/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportStore is the read side of the recorder.
type ReportStore interface {
	LatestReports(ctx context.Context) ([]model.AnalysisReport, error)
	LatestReport(ctx context.Context, symbol string) (*model.AnalysisReport, error)
}

// ReportHandler serves stored reports.
type ReportHandler struct {
	store ReportStore
}

func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// List returns the newest report of every symbol. ?direction=UP filters by signal direction.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.store.LatestReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dir := strings.ToUpper(c.Query("direction"))
	out := make([]model.AnalysisReport, 0, len(reports))
	for _, r := range reports {
		if dir != "" && string(r.SignalInfo.Direction) != dir {
			continue
		}
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// Get returns the newest report of one symbol.
func (h *ReportHandler) Get(c *gin.Context) {
	r, err := h.store.LatestReport(c.Request.Context(), c.Param("symbol"))
	if errors.Is(err, recorder.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report for " + strings.ToUpper(c.Param("symbol"))})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

// NewRouter wires the API routes. gatherer may be nil to skip /metrics.
func NewRouter(store ReportStore, health *metrics.HealthStatus, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Snapshot())
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	h := NewReportHandler(store)
	api := r.Group("/api/v1")
	api.GET("/reports", h.List)
	api.GET("/reports/:symbol", h.Get)
	return r
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("[INFO] http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
