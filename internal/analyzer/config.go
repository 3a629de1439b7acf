package analyzer

import (
	"SignalDesk/internal/calculator"
	"SignalDesk/internal/levels"
	"SignalDesk/internal/options"
	"SignalDesk/internal/strategy"
	"SignalDesk/internal/targets"
)

// Config groups the tunables of every pipeline stage.
type Config struct {
	Indicators calculator.Config `yaml:"indicators"`
	Levels     levels.Config     `yaml:"levels"`
	Signal     strategy.Config   `yaml:"signal"`
	Targets    targets.Config    `yaml:"targets"`
	Options    options.Config    `yaml:"options"`
}

// DefaultConfig returns defaults for every stage.
func DefaultConfig() Config {
	return Config{
		Indicators: calculator.DefaultConfig(),
		Levels:     levels.DefaultConfig(),
		Signal:     strategy.DefaultConfig(),
		Targets:    targets.DefaultConfig(),
		Options:    options.DefaultConfig(),
	}
}

// Validate checks every stage configuration.
func (c Config) Validate() error {
	for _, v := range []interface{ Validate() error }{c.Indicators, c.Levels, c.Signal, c.Targets, c.Options} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
