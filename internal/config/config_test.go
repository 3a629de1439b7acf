package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)

	assert.Equal(t, 365, cfg.DataSource.HistoryDays)
	assert.Equal(t, 100000.0, cfg.Account.Capital)
	assert.Equal(t, 0.02, cfg.RiskFraction())
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, 30*time.Second, cfg.Analysis.InstrumentTimeout)
	assert.Equal(t, "v1", cfg.Analysis.Stages.Signal.Version)
	assert.Equal(t, 14, cfg.Analysis.Stages.Indicators.RSIPeriod)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", `
symbols: [infy, tcs]
data_source:
  history_days: 120
account:
  capital: 250000
analysis:
  workers: 2
  instrument_timeout: 10s
  signal:
    version: v2
    trend_upper_threshold: 65
`)
	t.Setenv("SIGNALDESK_CAPITAL", "500000")
	t.Setenv("SIGNALDESK_TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"infy", "tcs"}, cfg.Symbols)
	assert.Equal(t, 120, cfg.DataSource.HistoryDays)
	assert.Equal(t, 500000.0, cfg.Account.Capital, "environment wins over yaml")
	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.Equal(t, 2, cfg.Analysis.Workers)
	assert.Equal(t, 10*time.Second, cfg.Analysis.InstrumentTimeout)
	assert.Equal(t, "v2", cfg.Analysis.Stages.Signal.Version)
	assert.Equal(t, 65.0, cfg.Analysis.Stages.Signal.TrendUpperThreshold)
	assert.Equal(t, 0.40, cfg.Analysis.Stages.Signal.DirectionalWeight, "unset stage fields keep defaults")
	assert.Empty(t, cfg.SymbolsFile)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("missing.yaml")
	require.NoError(t, err)

	cfg.DataSource.HistoryDays = 20
	assert.Error(t, cfg.Validate())

	cfg.DataSource.HistoryDays = 30
	cfg.Account.MaxRiskPercent = 25
	assert.Error(t, cfg.Validate())

	assert.Error(t, cfg.ValidateTelegram())
}

func TestLoadSymbols(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stocks.txt", "# watchlist\ninfy\n\nTCS  # it\nINFY\nreliance\n")

	got, err := LoadSymbols(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"INFY", "TCS", "RELIANCE"}, got)
}

func TestResolveSymbols(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Symbols: []string{"hdfcbank", "INFY"}}
	cfg.SymbolsFile = writeFile(t, dir, "stocks.txt", "infy\nwipro\n")

	got, err := cfg.ResolveSymbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"HDFCBANK", "INFY", "WIPRO"}, got)

	cfg.SymbolsFile = filepath.Join(dir, "absent.txt")
	got, err = cfg.ResolveSymbols()
	require.NoError(t, err, "inline symbols suffice when the file is missing")
	assert.Equal(t, []string{"HDFCBANK", "INFY"}, got)

	_, err = (&Config{SymbolsFile: filepath.Join(dir, "absent.txt")}).ResolveSymbols()
	assert.Error(t, err)
}
