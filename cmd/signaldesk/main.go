package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"SignalDesk/internal/config"
	"SignalDesk/internal/scheduler"
	"SignalDesk/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "signaldesk",
		Short:         "Technical analysis and option signal engine for NSE equities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", defaultConfigPath(), "path to the YAML config file")
	root.AddCommand(newRunCmd(), newScheduleCmd(), newServeCmd())
	return root
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig reads the config and applies the shared batch flags.
func loadConfig(cmd *cobra.Command) (*config.Config, []string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if f := cmd.Flags().Lookup("days"); f != nil && f.Changed {
		days, _ := cmd.Flags().GetInt("days")
		if days < config.MinHistoryDays {
			log.Printf("[WARN] --days %d is too short for reliable analysis, using %d", days, config.MinHistoryDays)
			days = config.MinHistoryDays
		}
		cfg.DataSource.HistoryDays = days
	}
	if f := cmd.Flags().Lookup("symbols"); f != nil && f.Changed {
		list, _ := cmd.Flags().GetString("symbols")
		cfg.Symbols = strings.Split(list, ",")
		cfg.SymbolsFile = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}

	symbols, err := cfg.ResolveSymbols()
	if err != nil {
		return nil, nil, err
	}
	return cfg, symbols, nil
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("days", 365, "days of history to fetch (minimum 30)")
	cmd.Flags().String("symbols", "", "comma-separated symbols, overriding the symbols file")
	cmd.Flags().Bool("force-update", false, "bypass cached price history")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze every configured symbol once and write the outputs",
		Example: `  signaldesk run
  signaldesk run --symbols INFY,TCS --days 120 --force-update`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, symbols, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, symbols)
			if err != nil {
				return err
			}
			defer a.Close()

			force, _ := cmd.Flags().GetBool("force-update")
			sum, err := a.scheduler.RunOnce(ctx, scheduler.RunOptions{ForceUpdate: force})
			if err != nil {
				return err
			}
			for _, f := range sum.Failures {
				log.Printf("[WARN] %v", f)
			}
			if len(sum.Reports) == 0 {
				return fmt.Errorf("no symbol could be analyzed")
			}
			return nil
		},
	}
	addBatchFlags(cmd)
	return cmd
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily batch on a cron schedule with Telegram commands and the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, symbols, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateTelegram(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			log.Println("[INFO] SignalDesk starting...")

			ctx, cancel := signalContext()
			defer cancel()

			a, err := buildApp(ctx, cfg, symbols)
			if err != nil {
				return err
			}
			defer a.Close()

			sched := a.scheduler
			if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			go a.notifier.StartPolling(ctx, sched.HandleCommand)
			log.Println("[INFO] Telegram polling started")

			if runNow, _ := cmd.Flags().GetBool("run-on-start"); runNow || os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] run on start enabled, executing batch now")
				force, _ := cmd.Flags().GetBool("force-update")
				go func() {
					if _, err := sched.RunOnce(ctx, scheduler.RunOptions{ForceUpdate: force}); err != nil {
						log.Printf("[ERROR] startup run: %v", err)
					}
				}()
			}

			log.Println("[INFO] SignalDesk is running. Press Ctrl+C to stop.")
			router := server.NewRouter(a.recorder, a.health, a.registry)
			if err := server.Run(ctx, cfg.Server.Addr, router); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			log.Println("[INFO] shutdown signal received, stopping...")
			return nil
		},
	}
	addBatchFlags(cmd)
	cmd.Flags().Bool("run-on-start", false, "run one batch immediately")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded reports and metrics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, cancel := signalContext()
			defer cancel()

			a := &app{cfg: cfg}
			newRegistry(a)
			newRecorder(a)
			defer a.Close()

			return server.Run(ctx, cfg.Server.Addr, server.NewRouter(a.recorder, a.health, a.registry))
		},
	}
}
