package baseball

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testDB opens an in-memory database for executor tests. The executor only
// touches database/sql, so any driver exercises the row handling.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedPlayers(t *testing.T, db *sql.DB, n int) {
	t.Helper()
	_, err := db.Exec(`CREATE TABLE players (id INTEGER PRIMARY KEY, name TEXT, hr INTEGER)`)
	require.NoError(t, err)
	for i := 1; i <= n; i++ {
		_, err := db.Exec(`INSERT INTO players (id, name, hr) VALUES (?, ?, ?)`, i, fmt.Sprintf("player%d", i), i*2)
		require.NoError(t, err)
	}
}

func TestExecutor_RejectsNonSelect(t *testing.T) {
	// The executor re-checks safety itself; no database access happens for
	// rejected statements, so a nil handle is fine.
	e := NewExecutor(nil)
	result := e.Query(context.Background(), "DELETE FROM players")
	assert.Equal(t, "Error: Only SELECT queries are allowed.", result)
}

func TestExecutor_RendersHeaderRowsAndCount(t *testing.T) {
	db := testDB(t)
	seedPlayers(t, db, 3)

	result := NewExecutor(db).Query(context.Background(), "SELECT name, hr FROM players ORDER BY id")
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Equal(t, "name | hr", lines[0])
	assert.Equal(t, strings.Repeat("-", 30), lines[1])
	assert.Equal(t, "player1 | 2", lines[2])
	assert.Contains(t, result, "(3 rows returned)")
}

func TestExecutor_CapsRowsAtFifty(t *testing.T) {
	db := testDB(t)
	seedPlayers(t, db, 60)

	result := NewExecutor(db).Query(context.Background(), "SELECT name FROM players ORDER BY id")

	// Header + rule + 50 data rows, trailing count matching rows returned.
	assert.Contains(t, result, "player50")
	assert.NotContains(t, result, "player51")
	assert.Contains(t, result, "(50 rows returned)")
}

func TestExecutor_NullMarker(t *testing.T) {
	db := testDB(t)
	_, err := db.Exec(`CREATE TABLE t (a TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (a) VALUES (NULL), ('')`)
	require.NoError(t, err)

	result := NewExecutor(db).Query(context.Background(), "SELECT a FROM t")
	assert.Contains(t, result, "NULL")
	assert.Contains(t, result, "(2 rows returned)")
}

func TestExecutor_ErrorIsStringNotPanic(t *testing.T) {
	db := testDB(t)

	result := NewExecutor(db).Query(context.Background(), "SELECT * FROM no_such_table")
	assert.True(t, strings.HasPrefix(result, "Error executing query:"), "got: %s", result)
}

func TestExecutor_EmptyResultStillCounts(t *testing.T) {
	db := testDB(t)
	seedPlayers(t, db, 5)

	result := NewExecutor(db).Query(context.Background(), "SELECT name FROM players WHERE hr > 1000")
	assert.Contains(t, result, "(0 rows returned)")
}
