package analyzer

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/model"

	"golang.org/x/sync/errgroup"
)

// Failure records why one instrument produced no report.
type Failure struct {
	Symbol string
	Err    error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Symbol, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// Observer receives per-instrument outcomes. It must be safe for concurrent use.
type Observer interface {
	ObserveReport(report model.AnalysisReport, elapsed time.Duration)
	ObserveFailure(symbol string, err error)
}

// Result holds the reports in input order alongside the failures.
type Result struct {
	Reports  []model.AnalysisReport
	Failures []Failure
}

// Runner analyzes many instruments on a bounded worker pool. Instruments
// share no state, so one failing or being skipped never affects another.
type Runner struct {
	Config   Config
	Workers  int
	Observer Observer
}

// Run analyzes every input. Inputs not yet started when ctx is cancelled are
// reported as failures with the context error.
func (r *Runner) Run(ctx context.Context, inputs []Input) Result {
	reports := make([]*model.AnalysisReport, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(max(1, r.Workers))
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			start := time.Now()
			report, err := analyzeIsolated(inputs[i], r.Config)
			if err != nil {
				errs[i] = err
				return nil
			}
			reports[i] = &report
			if r.Observer != nil {
				r.Observer.ObserveReport(report, time.Since(start))
			}
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i := range inputs {
		if errs[i] != nil {
			symbol := inputs[i].Series.Symbol
			res.Failures = append(res.Failures, Failure{Symbol: symbol, Err: errs[i]})
			if r.Observer != nil {
				r.Observer.ObserveFailure(symbol, errs[i])
			}
			continue
		}
		res.Reports = append(res.Reports, *reports[i])
	}
	return res
}

// analyzeIsolated turns a panic in one instrument into its own failure.
func analyzeIsolated(in Input, cfg Config) (report model.AnalysisReport, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("analysis panicked: %v", p)
		}
	}()
	return Analyze(in, cfg)
}
