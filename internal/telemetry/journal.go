// Package telemetry records one row per model turn to a local sqlite file.
//
// DESIGN: The journal is an append-only audit of spend across restarts.
// It is not session state: the in-memory ledger still owns the session
// totals, and a journal failure must never break the chat loop, so write
// errors are logged and swallowed.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id            TEXT PRIMARY KEY,
	at            TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	cost_usd      REAL NOT NULL
);`

// TurnRecord is one journaled turn.
type TurnRecord struct {
	ID           string
	At           time.Time
	Model        string
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// Journal appends turn records to a sqlite file.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends one turn. Failures are logged, not returned.
func (j *Journal) Record(ctx context.Context, rec TurnRecord) {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO turns (id, at, model, input_tokens, output_tokens, cost_usd)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.At.UTC().Format(time.RFC3339), rec.Model,
		rec.InputTokens, rec.OutputTokens, rec.CostUSD)
	if err != nil {
		log.Warn().Err(err).Str("turn_id", rec.ID).Msg("journal write failed")
	}
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
