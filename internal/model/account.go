package model

import "time"

// AccountState is the persisted trading capital and risk appetite used for sizing.
type AccountState struct {
	Capital float64 `json:"capital"`
	// RiskFraction is the share of capital risked per trade, e.g. 0.02.
	RiskFraction float64   `json:"risk_fraction"`
	LastRunID    string    `json:"last_run_id,omitempty"`
	LastRunAt    time.Time `json:"last_run_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
