// Package output writes batch reports to the output directory.
package output

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"SignalDesk/internal/model"
)

const (
	SignalsJSON = "trading_signals.json"
	SignalsCSV  = "trading_signals.csv"
)

// Writer persists a run's reports as JSON and CSV under Dir.
type Writer struct {
	Dir string
}

// WriteAll writes trading_signals.json, a timestamped JSON copy and
// trading_signals.csv. It returns the paths written.
func (w *Writer) WriteAll(reports []model.AnalysisReport, at time.Time) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	data, err := EncodeJSON(reports)
	if err != nil {
		return nil, err
	}
	latest := filepath.Join(w.Dir, SignalsJSON)
	stamped := filepath.Join(w.Dir, fmt.Sprintf("all_signals_%s.json", at.Format("20060102_150405")))
	for _, p := range []string{latest, stamped} {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
	}

	csvPath := filepath.Join(w.Dir, SignalsCSV)
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", csvPath, err)
	}
	defer f.Close()
	if err := WriteCSV(f, reports); err != nil {
		return nil, fmt.Errorf("write %s: %w", csvPath, err)
	}

	log.Printf("[INFO] wrote %d reports to %s", len(reports), w.Dir)
	return []string{latest, stamped, csvPath}, nil
}

// EncodeJSON renders reports as an indented object keyed by symbol.
func EncodeJSON(reports []model.AnalysisReport) ([]byte, error) {
	bySymbol := make(map[string]model.AnalysisReport, len(reports))
	for _, r := range reports {
		bySymbol[r.BasicInfo.Symbol] = r
	}
	data, err := json.MarshalIndent(bySymbol, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode reports: %w", err)
	}
	return data, nil
}
