package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"SignalDesk/internal/model"
)

// LoadState reads the persisted account. A missing file is a fresh account.
func LoadState(path string) (*model.AccountState, error) {
	state := &model.AccountState{}
	if path == "" {
		return state, nil
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return state, nil
	case err != nil:
		return nil, fmt.Errorf("read account state %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decode account state %s: %w", path, err)
	}
	return state, nil
}

// SaveState stamps UpdatedAt and replaces the file through a temp file in the
// same directory, so a crash mid-write leaves the previous state readable.
func SaveState(path string, state *model.AccountState) error {
	state.UpdatedAt = time.Now()
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode account state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create account state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".account-*.json")
	if err != nil {
		return fmt.Errorf("create temp account state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write account state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write account state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace account state %s: %w", path, err)
	}
	return nil
}
