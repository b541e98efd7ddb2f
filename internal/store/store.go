package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite is the durable Repository backed by a local database file.
type SQLite struct {
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; the drill never touches the store concurrently.
	db.SetMaxOpenConns(1)
	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uid TEXT NOT NULL,
			mode TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			average_latency REAL,
			best_latency REAL,
			latencies TEXT NOT NULL,
			best_streak INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solve_samples (
			id INTEGER PRIMARY KEY,
			latency REAL NOT NULL,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS wrong_answers (
			id INTEGER PRIMARY KEY,
			problem_text TEXT NOT NULL,
			submitted INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			kind TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_solve_samples_mode ON solve_samples(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendSession implements Repository.
func (s *SQLite) AppendSession(ctx context.Context, rec model.SessionRecord) error {
	latencies := rec.Latencies
	if latencies == nil {
		latencies = []float64{}
	}
	encoded, err := json.Marshal(latencies)
	if err != nil {
		return fmt.Errorf("failed to encode latencies: %w", err)
	}
	var avg, best sql.NullFloat64
	if rec.HasLatency() {
		avg = sql.NullFloat64{Float64: rec.AverageLatency, Valid: true}
		best = sql.NullFloat64{Float64: rec.BestLatency, Valid: true}
	}
	return s.appendCapped(ctx, "sessions", model.MaxSessions,
		`INSERT INTO sessions (uid, mode, correct, total, accuracy, average_latency, best_latency, latencies, best_streak, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Mode),
		rec.Correct,
		rec.Total,
		rec.Accuracy,
		avg,
		best,
		string(encoded),
		rec.BestStreak,
		rec.Timestamp.Format(time.RFC3339Nano),
	)
}

// AppendSolveSample implements Repository.
func (s *SQLite) AppendSolveSample(ctx context.Context, sample model.SolveSample) error {
	return s.appendCapped(ctx, "solve_samples", model.MaxSolveSamples,
		`INSERT INTO solve_samples (latency, mode, created_at) VALUES (?, ?, ?)`,
		sample.Latency,
		string(sample.Mode),
		sample.Timestamp.Format(time.RFC3339Nano),
	)
}

// AppendWrongAnswer implements Repository.
func (s *SQLite) AppendWrongAnswer(ctx context.Context, rec model.WrongAnswer) error {
	return s.appendCapped(ctx, "wrong_answers", model.MaxWrongAnswers,
		`INSERT INTO wrong_answers (problem_text, submitted, correct, kind, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ProblemText,
		rec.Submitted,
		rec.Correct,
		string(rec.Kind),
		rec.Timestamp.Format(time.RFC3339Nano),
	)
}

// appendCapped inserts a row and trims table to the newest limit rows in one
// transaction. table must be a trusted constant.
func (s *SQLite) appendCapped(ctx context.Context, table string, limit int, insert string, args ...any) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	trim := fmt.Sprintf(`DELETE FROM %[1]s WHERE id NOT IN (
		SELECT id FROM %[1]s ORDER BY id DESC LIMIT ?
	)`, table)
	if _, err = tx.ExecContext(ctx, trim, limit); err != nil {
		return fmt.Errorf("failed to trim %s: %w", table, err)
	}
	return tx.Commit()
}

// LoadSessions implements Repository. Rows that cannot be decoded are skipped.
func (s *SQLite) LoadSessions(ctx context.Context) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, mode, correct, total, accuracy, average_latency, best_latency, latencies, best_streak, created_at
		 FROM sessions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var mode, latencies, createdAt string
		var avg, best sql.NullFloat64
		if err := rows.Scan(&rec.ID, &mode, &rec.Correct, &rec.Total, &rec.Accuracy, &avg, &best, &latencies, &rec.BestStreak, &createdAt); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(latencies), &rec.Latencies); err != nil {
			continue
		}
		rec.Mode = model.OperationKind(mode)
		rec.Timestamp = ts
		rec.AverageLatency = avg.Float64
		rec.BestLatency = best.Float64
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadSolveSamples implements Repository. Rows that cannot be decoded are skipped.
func (s *SQLite) LoadSolveSamples(ctx context.Context) ([]model.SolveSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT latency, mode, created_at FROM solve_samples ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SolveSample
	for rows.Next() {
		var sample model.SolveSample
		var mode, createdAt string
		if err := rows.Scan(&sample.Latency, &mode, &createdAt); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			continue
		}
		sample.Mode = model.OperationKind(mode)
		sample.Timestamp = ts
		result = append(result, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadWrongAnswers implements Repository. Rows that cannot be decoded are skipped.
func (s *SQLite) LoadWrongAnswers(ctx context.Context) ([]model.WrongAnswer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT problem_text, submitted, correct, kind, created_at FROM wrong_answers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WrongAnswer
	for rows.Next() {
		var rec model.WrongAnswer
		var kind, createdAt string
		if err := rows.Scan(&rec.ProblemText, &rec.Submitted, &rec.Correct, &kind, &createdAt); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			continue
		}
		rec.Kind = model.OperationKind(kind)
		rec.Timestamp = ts
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ClearAll implements Repository.
func (s *SQLite) ClearAll(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, table := range []string{"sessions", "solve_samples", "wrong_answers"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
