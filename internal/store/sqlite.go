package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

var _ DB = (*SQLiteDB)(nil)

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets readers proceed during writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate creates tables and indexes. Safe to run repeatedly.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS spins (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			game TEXT NOT NULL,
			sector INTEGER NOT NULL,
			prize TEXT NOT NULL,
			cost TEXT NOT NULL,
			winnings TEXT NOT NULL,
			balance TEXT NOT NULL,
			multiplier TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			game TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			elapsed REAL NOT NULL,
			speed REAL NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spins_session ON spins(session_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_game_score ON runs(game, score DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveSpin inserts a spin; ID and CreatedAt are filled when empty.
func (s *SQLiteDB) SaveSpin(ctx context.Context, spin *Spin) error {
	if spin.ID == "" {
		spin.ID = uuid.New().String()
	}
	if spin.CreatedAt.IsZero() {
		spin.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO spins (
		id, session_id, game, sector, prize, cost, winnings, balance, multiplier, level, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spin.ID, spin.SessionID, spin.Game, spin.Sector, spin.Prize,
		spin.Cost.String(), spin.Winnings.String(), spin.Balance.String(), spin.Multiplier.String(),
		spin.Level, spin.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save spin: %w", err)
	}
	return nil
}

// SaveRun inserts a finished run.
func (s *SQLiteDB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
		id, run_id, game, player, score, level, elapsed, speed, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RunID, run.Game, run.Player, run.Score, run.Level,
		run.Elapsed, run.Speed, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// ListSpins returns a session's spins, newest first.
func (s *SQLiteDB) ListSpins(ctx context.Context, sessionID string, limit int) ([]Spin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, session_id, game, sector, prize, cost, winnings, balance, multiplier, level, created_at
		FROM spins WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		sessionID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list spins: %w", err)
	}
	defer rows.Close()

	var out []Spin
	for rows.Next() {
		var sp Spin
		var cost, win, bal, mult string
		var created int64
		if err := rows.Scan(&sp.ID, &sp.SessionID, &sp.Game, &sp.Sector, &sp.Prize,
			&cost, &win, &bal, &mult, &sp.Level, &created); err != nil {
			return nil, fmt.Errorf("scan spin: %w", err)
		}
		if sp.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("spin %s cost: %w", sp.ID, err)
		}
		if sp.Winnings, err = decimal.NewFromString(win); err != nil {
			return nil, fmt.Errorf("spin %s winnings: %w", sp.ID, err)
		}
		if sp.Balance, err = decimal.NewFromString(bal); err != nil {
			return nil, fmt.Errorf("spin %s balance: %w", sp.ID, err)
		}
		if sp.Multiplier, err = decimal.NewFromString(mult); err != nil {
			return nil, fmt.Errorf("spin %s multiplier: %w", sp.ID, err)
		}
		sp.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, sp)
	}
	return out, rows.Err()
}

// TopRuns returns the best scores for a game.
func (s *SQLiteDB) TopRuns(ctx context.Context, game string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, run_id, game, player, score, level, elapsed, speed, created_at
		FROM runs WHERE game = ? ORDER BY score DESC, elapsed ASC, created_at ASC LIMIT ?`,
		game, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("top runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Game, &r.Player, &r.Score, &r.Level,
			&r.Elapsed, &r.Speed, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
