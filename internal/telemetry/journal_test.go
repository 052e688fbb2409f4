package telemetry

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestJournal_RecordAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	j, err := Open(path)
	require.NoError(t, err)

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	j.Record(context.Background(), TurnRecord{
		ID:           "turn-1",
		At:           at,
		Model:        "claude-3-haiku-20240307",
		InputTokens:  1200,
		OutputTokens: 80,
		CostUSD:      0.0004,
	})
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var (
		model   string
		atStr   string
		in, out int64
		cost    float64
	)
	err = db.QueryRow(`SELECT model, at, input_tokens, output_tokens, cost_usd FROM turns WHERE id = 'turn-1'`).
		Scan(&model, &atStr, &in, &out, &cost)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-haiku-20240307", model)
	assert.Equal(t, "2026-08-30T12:00:00Z", atStr)
	assert.Equal(t, int64(1200), in)
	assert.Equal(t, int64(80), out)
	assert.InDelta(t, 0.0004, cost, 1e-9)
}

func TestJournal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	j, err := Open(path)
	require.NoError(t, err)
	j.Record(context.Background(), TurnRecord{ID: "a", At: time.Now(), Model: "m"})
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	j.Record(context.Background(), TurnRecord{ID: "b", At: time.Now(), Model: "m"})

	var count int
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM turns`).Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, j.Close())
}

func TestJournal_DuplicateIDLoggedNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	rec := TurnRecord{ID: "dup", At: time.Now(), Model: "m"}
	j.Record(context.Background(), rec)
	// Second write violates the primary key; it must be swallowed.
	j.Record(context.Background(), rec)

	var count int
	require.NoError(t, j.db.QueryRow(`SELECT COUNT(*) FROM turns`).Scan(&count))
	assert.Equal(t, 1, count)
}
