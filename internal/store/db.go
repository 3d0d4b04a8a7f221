package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DB is the play-history store.
type DB interface {
	Close() error
	Migrate(ctx context.Context) error
	SaveSpin(ctx context.Context, spin *Spin) error
	SaveRun(ctx context.Context, run *Run) error
	ListSpins(ctx context.Context, sessionID string, limit int) ([]Spin, error)
	TopRuns(ctx context.Context, game string, limit int) ([]Run, error)
}

// Spin is one paid-out wheel spin.
type Spin struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	Game       string          `json:"game"`
	Sector     int             `json:"sector"`
	Prize      string          `json:"prize"`
	Cost       decimal.Decimal `json:"cost"`
	Winnings   decimal.Decimal `json:"winnings"`
	Balance    decimal.Decimal `json:"balance"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Level      int             `json:"level"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Run is one finished runner game.
type Run struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Game      string    `json:"game"`
	Player    string    `json:"player,omitempty"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Elapsed   float64   `json:"elapsed"`
	Speed     float64   `json:"speed"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return min(n, maxLimit)
}
