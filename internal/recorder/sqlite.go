package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"SignalDesk/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no report exists for a symbol.
var ErrNotFound = errors.New("report not found")

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API server read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_reports (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			run_id            TEXT,
			symbol            TEXT NOT NULL,
			current_price     REAL,
			direction         TEXT,
			confidence        REAL,
			probability       REAL,
			target_price      REAL,
			stop_loss         REAL,
			risk_reward       REAL,
			days_to_target    INTEGER,
			trading_symbol    TEXT,
			earnings_risk     TEXT,
			config_version    TEXT,
			report_json       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_symbol_ts ON analysis_reports(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			run_id    TEXT,
			symbol    TEXT NOT NULL,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON run_failures(timestamp)`,

		`CREATE TABLE IF NOT EXISTS iv_observations (
			symbol TEXT NOT NULL,
			day    TEXT NOT NULL,
			iv     REAL NOT NULL,
			PRIMARY KEY (symbol, day)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReport(ctx context.Context, rep *model.AnalysisReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sig := rep.SignalInfo.Signal
	pt := rep.PriceTargets
	_, err = r.db.ExecContext(ctx, `INSERT INTO analysis_reports
		(timestamp, run_id, symbol, current_price, direction, confidence, probability,
		 target_price, stop_loss, risk_reward, days_to_target,
		 trading_symbol, earnings_risk, config_version, report_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rep.Metadata.RunID, rep.BasicInfo.Symbol, rep.BasicInfo.CurrentPrice,
		string(sig.Direction), sig.ConfidencePercent, sig.ProfitProbabilityPercent,
		pt.TargetPrice, pt.StopLoss, pt.RiskRewardRatio, pt.DaysToTarget,
		rep.Metadata.TradingSymbol, string(rep.RiskFactors.EarningsRisk), sig.ConfigVersion,
		string(data),
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(ctx context.Context, evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO run_failures (timestamp, run_id, symbol, reason)
		VALUES (?,?,?,?)`,
		at.Unix(), evt.RunID, evt.Symbol, evt.Reason,
	)
	return err
}

// RecordIV stores one reading per symbol and calendar day; a later reading replaces an earlier one.
func (r *SQLiteRecorder) RecordIV(ctx context.Context, obs *IVObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO iv_observations (symbol, day, iv)
		VALUES (?,?,?)`,
		strings.ToUpper(obs.Symbol), obs.Date.Format("2006-01-02"), obs.IV,
	)
	return err
}

func (r *SQLiteRecorder) IVHistory(ctx context.Context, symbol string, asOf time.Time, days int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT iv FROM (
			SELECT day, iv FROM iv_observations
			WHERE symbol = ? AND day < ?
			ORDER BY day DESC LIMIT ?
		) ORDER BY day ASC`,
		strings.ToUpper(symbol), asOf.Format("2006-01-02"), days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var iv float64
		if err := rows.Scan(&iv); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// LatestReports returns the newest report of every symbol, ordered by symbol.
func (r *SQLiteRecorder) LatestReports(ctx context.Context) ([]model.AnalysisReport, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT report_json FROM analysis_reports a
		WHERE id = (SELECT MAX(id) FROM analysis_reports b WHERE b.symbol = a.symbol)
		ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisReport
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rep model.AnalysisReport
		if err := json.Unmarshal([]byte(raw), &rep); err != nil {
			return nil, fmt.Errorf("decode stored report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) LatestReport(ctx context.Context, symbol string) (*model.AnalysisReport, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT report_json FROM analysis_reports
		WHERE symbol = ? ORDER BY id DESC LIMIT 1`, strings.ToUpper(symbol)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rep model.AnalysisReport
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &rep, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
