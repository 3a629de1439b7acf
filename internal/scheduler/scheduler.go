package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"SignalDesk/internal/account"
	"SignalDesk/internal/analyzer"
	"SignalDesk/internal/collector"
	"SignalDesk/internal/markethours"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/model"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/output"
	"SignalDesk/internal/recorder"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs analysis batches on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Cache     *collector.CachingFetcher
	Runner    *analyzer.Runner
	Account   *account.Manager
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	Writer    *output.Writer
	Clock     *markethours.Clock
	Metrics   *metrics.Metrics
	Health    *metrics.HealthStatus
	Symbols   []string

	InstrumentTimeout time.Duration
	IVHistoryDays     int
	Now               func() time.Time
	Ctx               context.Context

	running sync.Mutex
}

// RunOptions tune a single batch.
type RunOptions struct {
	// ForceUpdate drops cached bars before fetching.
	ForceUpdate bool
}

// RunSummary is the outcome of one batch.
type RunSummary struct {
	RunID    string
	At       time.Time
	Reports  []model.AnalysisReport
	Failures []analyzer.Failure
}

// NewScheduler creates a new Scheduler. Optional collaborators are set on the returned value.
func NewScheduler(ctx context.Context, col *collector.Collector, runner *analyzer.Runner, am *account.Manager, rec recorder.Recorder, symbols []string) *Scheduler {
	ist := markethours.IST()
	return &Scheduler{
		Cron:              cron.New(cron.WithSeconds(), cron.WithLocation(ist)),
		Collector:         col,
		Runner:            runner,
		Account:           am,
		Recorder:          rec,
		Symbols:           symbols,
		InstrumentTimeout: 30 * time.Second,
		IVHistoryDays:     252,
		Now:               func() time.Time { return time.Now().In(ist) },
		Ctx:               ctx,
	}
}

// RegisterAll registers the daily batch.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	if s.Clock != nil && !s.Clock.IsTradingDay(s.Now()) {
		log.Println("[INFO] exchange holiday, skipping daily run")
		return
	}
	if _, err := s.RunOnce(s.Ctx, RunOptions{}); err != nil {
		log.Printf("[ERROR] daily run: %v", err)
		s.trySend(fmt.Sprintf("❌ daily run failed: %v", err))
	}
}

// RunOnce gathers data for every symbol, analyzes them and publishes the
// results. Only one batch runs at a time.
func (s *Scheduler) RunOnce(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	if !s.running.TryLock() {
		return nil, fmt.Errorf("a run is already in progress")
	}
	defer s.running.Unlock()

	start := time.Now()
	sum := &RunSummary{RunID: uuid.NewString(), At: s.Now()}
	status := markethours.StatusClosed
	if s.Clock != nil {
		status = s.Clock.Status(sum.At)
	}
	log.Printf("[INFO] run %s: %d symbols, market %s", sum.RunID, len(s.Symbols), status)

	if opts.ForceUpdate && s.Cache != nil {
		for _, sym := range s.Symbols {
			if err := s.Cache.Invalidate(ctx, sym); err != nil {
				log.Printf("[WARN] %s: invalidate cached bars: %v", sym, err)
			}
		}
	}

	inputs, gatherFailures := s.gather(ctx, sum, status)
	res := s.Runner.Run(ctx, inputs)
	sum.Reports = res.Reports
	sum.Failures = append(gatherFailures, res.Failures...)

	s.publish(ctx, sum)

	if s.Metrics != nil {
		s.Metrics.ObserveRun(sum.At, time.Since(start), status == markethours.StatusOpen)
	}
	log.Printf("[INFO] run %s finished in %v: %d reports, %d failures",
		sum.RunID, time.Since(start).Round(time.Millisecond), len(sum.Reports), len(sum.Failures))
	return sum, nil
}

// gather fetches every symbol's inputs concurrently, each under its own timeout.
func (s *Scheduler) gather(ctx context.Context, sum *RunSummary, status string) ([]analyzer.Input, []analyzer.Failure) {
	capital, riskFraction := s.Account.SizingInputs()
	inputs := make([]*analyzer.Input, len(s.Symbols))
	errs := make([]error, len(s.Symbols))

	var g errgroup.Group
	g.SetLimit(max(1, s.Runner.Workers))
	for i, sym := range s.Symbols {
		g.Go(func() error {
			ictx, cancel := context.WithTimeout(ctx, s.InstrumentTimeout)
			defer cancel()

			got, err := s.Collector.Gather(ictx, sym, sum.At)
			if err != nil {
				errs[i] = fmt.Errorf("%w: %v", metrics.ErrFetch, err)
				return nil
			}
			in := analyzer.Input{
				Series:         got.Series,
				Chain:          got.Chain,
				DaysToEarnings: got.DaysToEarnings,
				Capital:        capital,
				RiskFraction:   riskFraction,
				AsOf:           sum.At,
				MarketStatus:   status,
				RunID:          sum.RunID,
			}
			in.IVHistory = s.ivHistory(ictx, got.Series.Symbol, got.Chain, sum.At)
			inputs[i] = &in
			return nil
		})
	}
	_ = g.Wait()

	var out []analyzer.Input
	var failures []analyzer.Failure
	for i, sym := range s.Symbols {
		if errs[i] != nil {
			log.Printf("[WARN] %s: %v", sym, errs[i])
			failures = append(failures, analyzer.Failure{Symbol: sym, Err: errs[i]})
			if s.Metrics != nil {
				s.Metrics.ObserveFailure(sym, errs[i])
			}
			continue
		}
		out = append(out, *inputs[i])
	}
	return out, failures
}

// ivHistory loads past readings and stores today's, so the percentile never
// ranks a reading against itself.
func (s *Scheduler) ivHistory(ctx context.Context, symbol string, chain *model.ChainSnapshot, at time.Time) []float64 {
	hist, err := s.Recorder.IVHistory(ctx, symbol, at, s.IVHistoryDays)
	if err != nil {
		log.Printf("[WARN] %s: load iv history: %v", symbol, err)
	}
	if iv, ok := recorder.ChainIV(chain); ok {
		if err := s.Recorder.RecordIV(ctx, &recorder.IVObservation{Symbol: symbol, Date: at, IV: iv}); err != nil {
			log.Printf("[WARN] %s: record iv: %v", symbol, err)
		}
	}
	return hist
}

func (s *Scheduler) publish(ctx context.Context, sum *RunSummary) {
	if s.Writer != nil {
		if _, err := s.Writer.WriteAll(sum.Reports, sum.At); err != nil {
			log.Printf("[ERROR] write output: %v", err)
		}
	}

	for i := range sum.Reports {
		if err := s.Recorder.RecordReport(ctx, &sum.Reports[i]); err != nil {
			log.Printf("[ERROR] record report %s: %v", sum.Reports[i].BasicInfo.Symbol, err)
		}
	}
	failed := make([]string, 0, len(sum.Failures))
	for _, f := range sum.Failures {
		failed = append(failed, f.Symbol)
		if err := s.Recorder.RecordFailure(ctx, &recorder.FailureEvent{
			RunID: sum.RunID, Symbol: f.Symbol, Reason: f.Err.Error(), At: sum.At,
		}); err != nil {
			log.Printf("[ERROR] record failure %s: %v", f.Symbol, err)
		}
	}

	s.Account.MarkRun(sum.RunID, sum.At)
	if s.Health != nil {
		s.Health.SetRun(sum.RunID, sum.At, len(sum.Reports), len(sum.Failures))
	}
	s.trySend(notifier.FormatRunSummary(sum.RunID, sum.At, sum.Reports, failed))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch strings.ToLower(fields[0]) {
	case "/run":
		if _, err := s.RunOnce(ctx, RunOptions{ForceUpdate: len(fields) > 1 && fields[1] == "force"}); err != nil {
			return fmt.Sprintf("❌ run failed: %v", err)
		}
		return ""
	case "/signals":
		if len(fields) > 1 {
			r, err := s.Recorder.LatestReport(ctx, fields[1])
			if err != nil {
				return fmt.Sprintf("no report for %s", strings.ToUpper(fields[1]))
			}
			return notifier.FormatReport(r)
		}
		reports, err := s.Recorder.LatestReports(ctx)
		if err != nil {
			return fmt.Sprintf("❌ load reports: %v", err)
		}
		if len(reports) == 0 {
			return "no reports yet, send /run"
		}
		st := s.Account.GetState()
		return notifier.FormatRunSummary(st.LastRunID, st.LastRunAt, reports, nil)
	case "/account":
		st := s.Account.GetState()
		return notifier.FormatAccount(&st)
	case "/capital":
		if len(fields) < 2 {
			return "usage: /capital 500000"
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err == nil {
			err = s.Account.SetCapital(v)
		}
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		st := s.Account.GetState()
		return notifier.FormatAccount(&st)
	case "/risk":
		if len(fields) < 2 {
			return "usage: /risk 1.5 (percent of capital per trade)"
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err == nil {
			err = s.Account.SetRiskFraction(v / 100)
		}
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		st := s.Account.GetState()
		return notifier.FormatAccount(&st)
	default:
		return "Commands:\n• /signals [SYMBOL]\n• /run [force]\n• /account\n• /capital AMOUNT\n• /risk PERCENT"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
