package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"SignalDesk/internal/analyzer"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SIGNALDESK_CAPITAL.
const EnvPrefix = "SIGNALDESK"

// MinHistoryDays is the shortest history worth analyzing.
const MinHistoryDays = 30

// Config holds all application configuration.
type Config struct {
	Symbols     []string `yaml:"symbols"`
	SymbolsFile string   `yaml:"symbols_file"`
	DataSource  struct {
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Account struct {
		Capital        float64 `yaml:"capital"`
		MaxRiskPercent float64 `yaml:"max_risk_percent"`
		StateFile      string  `yaml:"state_file"`
	} `yaml:"account"`
	Analysis struct {
		Workers           int             `yaml:"workers"`
		InstrumentTimeout time.Duration   `yaml:"instrument_timeout"`
		IVHistoryDays     int             `yaml:"iv_history_days"`
		Stages            analyzer.Config `yaml:",inline"`
	} `yaml:"analysis"`
	ChainsDir    string `yaml:"chains_dir"`
	EarningsFile string `yaml:"earnings_file"`
	OutputDir    string `yaml:"output_dir"`
	Database     struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// envOverrides are read from the environment (and .env) with EnvPrefix.
type envOverrides struct {
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string  `envconfig:"TELEGRAM_CHAT_ID"`
	GatewayURL       string  `envconfig:"GATEWAY_URL"`
	GatewayAPIKey    string  `envconfig:"GATEWAY_API_KEY"`
	Proxy            string  `envconfig:"PROXY"`
	Capital          float64 `envconfig:"CAPITAL"`
	RiskPercent      float64 `envconfig:"RISK_PERCENT"`
	HistoryDays      int     `envconfig:"HISTORY_DAYS"`
	Workers          int     `envconfig:"WORKERS"`
	DailyCron        string  `envconfig:"DAILY_CRON"`
	SQLitePath       string  `envconfig:"SQLITE_PATH"`
	RedisAddr        string  `envconfig:"REDIS_ADDR"`
	RedisPassword    string  `envconfig:"REDIS_PASSWORD"`
	OutputDir        string  `envconfig:"OUTPUT_DIR"`
	ServerAddr       string  `envconfig:"SERVER_ADDR"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Analysis.Stages = analyzer.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(e envOverrides) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&c.Telegram.BotToken, e.TelegramBotToken)
	setString(&c.Telegram.ChatID, e.TelegramChatID)
	setString(&c.DataSource.BaseURL, e.GatewayURL)
	setString(&c.DataSource.APIKey, e.GatewayAPIKey)
	setString(&c.Proxy, e.Proxy)
	setString(&c.Schedule.DailyCron, e.DailyCron)
	setString(&c.Database.SQLitePath, e.SQLitePath)
	setString(&c.Redis.Addr, e.RedisAddr)
	setString(&c.Redis.Password, e.RedisPassword)
	setString(&c.OutputDir, e.OutputDir)
	setString(&c.Server.Addr, e.ServerAddr)
	if e.Capital > 0 {
		c.Account.Capital = e.Capital
	}
	if e.RiskPercent > 0 {
		c.Account.MaxRiskPercent = e.RiskPercent
	}
	if e.HistoryDays > 0 {
		c.DataSource.HistoryDays = e.HistoryDays
	}
	if e.Workers > 0 {
		c.Analysis.Workers = e.Workers
	}
}

func (c *Config) applyDefaults() {
	if c.SymbolsFile == "" && len(c.Symbols) == 0 {
		c.SymbolsFile = "data/stocks_list.txt"
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 365
	}
	if c.Account.Capital == 0 {
		c.Account.Capital = 100000
	}
	if c.Account.MaxRiskPercent == 0 {
		c.Account.MaxRiskPercent = 2
	}
	if c.Account.StateFile == "" {
		c.Account.StateFile = "data/account_state.json"
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 4
	}
	if c.Analysis.InstrumentTimeout == 0 {
		c.Analysis.InstrumentTimeout = 30 * time.Second
	}
	if c.Analysis.IVHistoryDays == 0 {
		c.Analysis.IVHistoryDays = 252
	}
	if c.OutputDir == "" {
		c.OutputDir = "data/output"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signaldesk.db"
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = 6 * time.Hour
	}
	if c.Schedule.DailyCron == "" {
		// 16:00 IST, after the close
		c.Schedule.DailyCron = "0 0 16 * * 1-5"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// RiskFraction returns the per-trade risk as a fraction of capital.
func (c *Config) RiskFraction() float64 {
	return c.Account.MaxRiskPercent / 100
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.DataSource.HistoryDays < MinHistoryDays {
		return fmt.Errorf("data_source.history_days must be at least %d", MinHistoryDays)
	}
	if c.Account.Capital <= 0 {
		return fmt.Errorf("account.capital must be positive")
	}
	if c.Account.MaxRiskPercent <= 0 || c.Account.MaxRiskPercent > 10 {
		return fmt.Errorf("account.max_risk_percent must be in (0, 10]")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1")
	}
	if err := c.Analysis.Stages.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// ValidateTelegram checks the settings the scheduler needs to notify.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// ResolveSymbols merges inline symbols with the symbols file, uppercased and
// de-duplicated in first-seen order.
func (c *Config) ResolveSymbols() ([]string, error) {
	all := append([]string(nil), c.Symbols...)
	if c.SymbolsFile != "" {
		fromFile, err := LoadSymbols(c.SymbolsFile)
		if err != nil && !(os.IsNotExist(err) && len(c.Symbols) > 0) {
			return nil, err
		}
		all = append(all, fromFile...)
	}
	out := dedupe(all)
	if len(out) == 0 {
		return nil, fmt.Errorf("no symbols configured")
	}
	return out, nil
}

// LoadSymbols reads one symbol per line; blank lines and # comments are skipped.
func LoadSymbols(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read symbols %s: %w", path, err)
	}
	return dedupe(out), nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
