package account

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"SignalDesk/internal/model"
)

// MaxRiskFraction caps the per-trade risk a user can configure.
const MaxRiskFraction = 0.10

var (
	ErrInvalidCapital = errors.New("capital must be positive")
	ErrInvalidRisk    = fmt.Errorf("risk fraction must be in (0, %.2f]", MaxRiskFraction)
)

// Manager guards the sizing inputs shared by scheduled runs and chat commands.
type Manager struct {
	mu       sync.Mutex
	state    *model.AccountState
	filePath string
}

// NewManager creates a Manager, loading state from disk and seeding missing
// values from the configured defaults.
func NewManager(filePath string, capital, riskFraction float64) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.Capital <= 0 {
		state.Capital = capital
	}
	if state.RiskFraction <= 0 {
		state.RiskFraction = riskFraction
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current account state.
func (m *Manager) GetState() model.AccountState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// SizingInputs returns capital and risk fraction for position sizing.
func (m *Manager) SizingInputs() (capital, riskFraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Capital, m.state.RiskFraction
}

func (m *Manager) SetCapital(capital float64) error {
	if capital <= 0 {
		return ErrInvalidCapital
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Capital = capital
	return m.save()
}

func (m *Manager) SetRiskFraction(f float64) error {
	if f <= 0 || f > MaxRiskFraction {
		return ErrInvalidRisk
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.RiskFraction = f
	return m.save()
}

// MarkRun records the latest completed batch run.
func (m *Manager) MarkRun(runID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastRunID = runID
	m.state.LastRunAt = at
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save account state after run %s: %v", runID, err)
	}
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
