package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

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
		`CREATE TABLE IF NOT EXISTS runs (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			kind           TEXT NOT NULL,
			experiment     TEXT,
			parameters     TEXT,
			outcome        TEXT,
			reward         INTEGER,
			resources      INTEGER,
			paths_explored INTEGER,
			paths_pruned   INTEGER,
			dead_paths     INTEGER,
			elapsed_ms     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS path_steps (
			run_id         TEXT NOT NULL REFERENCES runs(id),
			step           INTEGER NOT NULL,
			investment_id  TEXT,
			spend          INTEGER,
			resource_level INTEGER,
			reward_level   INTEGER,
			PRIMARY KEY (run_id, step)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	params, err := json.Marshal(run.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, timestamp, kind, experiment, parameters, outcome, reward, resources,
		 paths_explored, paths_pruned, dead_paths, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, ts.Unix(), run.Kind, run.Experiment, string(params), run.Outcome,
		run.Reward, run.Resources, run.PathsExplored, run.PathsPruned, run.DeadPaths,
		float64(run.Elapsed)/float64(time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, st := range run.Steps {
		_, err := tx.Exec(`INSERT INTO path_steps
			(run_id, step, investment_id, spend, resource_level, reward_level)
			VALUES (?,?,?,?,?,?)`,
			run.ID, st.Step, st.InvestmentID, st.Spend, st.ResourceLevel, st.RewardLevel,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", st.Step, err)
		}
	}
	return tx.Commit()
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Kind          string    `json:"kind"`
	Experiment    string    `json:"experiment,omitempty"`
	Outcome       string    `json:"outcome"`
	Reward        int       `json:"reward"`
	Resources     int       `json:"resources"`
	PathsExplored int       `json:"paths_explored"`
	Steps         []string  `json:"steps"`
}

// Recent returns up to limit runs, newest first, with their chosen investment ids.
func (r *SQLiteRecorder) Recent(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, kind, experiment, outcome, reward, resources, paths_explored
		FROM runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.Kind, &s.Experiment, &s.Outcome, &s.Reward, &s.Resources, &s.PathsExplored); err != nil {
			rows.Close()
			return nil, err
		}
		s.Timestamp = time.Unix(ts, 0)
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		steps, err := r.db.Query(`SELECT investment_id FROM path_steps WHERE run_id = ? ORDER BY step`, out[i].ID)
		if err != nil {
			return nil, fmt.Errorf("query steps: %w", err)
		}
		for steps.Next() {
			var id string
			if err := steps.Scan(&id); err != nil {
				steps.Close()
				return nil, err
			}
			out[i].Steps = append(out[i].Steps, id)
		}
		steps.Close()
	}
	return out, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
