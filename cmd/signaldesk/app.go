package main

import (
	"context"
	"log"

	"SignalDesk/internal/account"
	"SignalDesk/internal/analyzer"
	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/markethours"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/output"
	"SignalDesk/internal/recorder"
	"SignalDesk/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	health    *metrics.HealthStatus
	recorder  recorder.Recorder
	scheduler *scheduler.Scheduler
	notifier  *notifier.TelegramNotifier
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}

// newRecorder falls back to a no-op recorder when SQLite cannot be opened.
func newRecorder(a *app) {
	a.health = metrics.NewHealthStatus()
	if a.cfg.Database.SQLitePath == "" {
		a.recorder = recorder.NewNoopRecorder()
		return
	}
	sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		a.recorder = recorder.NewNoopRecorder()
		return
	}
	a.recorder = sr
	a.health.SetSQLiteOK(true)
	a.closers = append(a.closers, sr.Close)
}

func newRegistry(a *app) {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.registry)
}

// buildApp wires the full batch pipeline.
func buildApp(ctx context.Context, cfg *config.Config, symbols []string) (*app, error) {
	a := &app{cfg: cfg}
	newRegistry(a)
	newRecorder(a)

	// Init fetchers
	var primary, fallback collector.Fetcher
	var chains collector.ChainSource
	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	if cfg.DataSource.BaseURL != "" {
		gw := collector.NewGatewayFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
		primary, fallback, chains = gw, yahoo, gw
	} else {
		primary = yahoo
	}
	if chains == nil && cfg.ChainsDir != "" {
		chains = &collector.FileChainSource{Dir: cfg.ChainsDir}
	}

	var cache *collector.CachingFetcher
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] redis unavailable at %s, bar cache disabled: %v", cfg.Redis.Addr, err)
			_ = rdb.Close()
		} else {
			cache = collector.NewCachingFetcher(rdb, cfg.Redis.TTL, primary, "signaldesk:bars")
			primary = cache
			a.closers = append(a.closers, rdb.Close)
		}
	}
	log.Printf("[INFO] data source: %s", primary.Name())

	col := collector.NewCollector(primary, cfg.DataSource.HistoryDays)
	col.Fallback = fallback
	col.Chains = chains
	if cfg.EarningsFile != "" {
		cal, err := collector.LoadEarningsCalendar(cfg.EarningsFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		col.Calendar = cal
	}

	am, err := account.NewManager(cfg.Account.StateFile, cfg.Account.Capital, cfg.RiskFraction())
	if err != nil {
		a.Close()
		return nil, err
	}

	runner := &analyzer.Runner{
		Config:   cfg.Analysis.Stages,
		Workers:  cfg.Analysis.Workers,
		Observer: a.metrics,
	}

	s := scheduler.NewScheduler(ctx, col, runner, am, a.recorder, symbols)
	s.Cache = cache
	s.Writer = &output.Writer{Dir: cfg.OutputDir}
	s.Clock = markethours.NewClock()
	s.Metrics = a.metrics
	s.Health = a.health
	s.InstrumentTimeout = cfg.Analysis.InstrumentTimeout
	s.IVHistoryDays = cfg.Analysis.IVHistoryDays

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		a.notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		s.Notifier = a.notifier
	}
	a.scheduler = s
	return a, nil
}
