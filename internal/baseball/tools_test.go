package baseball

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions_WireNames(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "get_schema", defs[0].Name)
	assert.Equal(t, "query_database", defs[1].Name)

	// query_database takes a required string 'sql' argument.
	props, ok := defs[1].InputSchema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "sql")
}

func TestToolset_QueryDatabaseDispatch(t *testing.T) {
	db := testDB(t)
	seedPlayers(t, db, 2)

	var echoed string
	ts := NewToolset(db, func(sql string) { echoed = sql })

	out := ts.Execute(context.Background(), ToolQueryDatabase,
		json.RawMessage(`{"sql":"SELECT name FROM players ORDER BY id"}`))
	assert.Contains(t, out, "player1")
	assert.Contains(t, out, "(2 rows returned)")
	assert.Equal(t, "SELECT name FROM players ORDER BY id", echoed)
}

func TestToolset_QueryDatabaseMissingArgument(t *testing.T) {
	ts := NewToolset(testDB(t), nil)
	out := ts.Execute(context.Background(), ToolQueryDatabase, json.RawMessage(`{}`))
	assert.Equal(t, "Error: query_database requires a 'sql' argument.", out)
}

func TestToolset_QueryDatabaseRejectsMutation(t *testing.T) {
	ts := NewToolset(testDB(t), nil)
	out := ts.Execute(context.Background(), ToolQueryDatabase,
		json.RawMessage(`{"sql":"DELETE FROM players"}`))
	assert.Equal(t, "Error: Only SELECT queries are allowed.", out)
}

func TestToolset_UnknownToolIsErrorString(t *testing.T) {
	ts := NewToolset(testDB(t), nil)
	out := ts.Execute(context.Background(), "fetch_weather", json.RawMessage(`{}`))
	assert.Equal(t, `Error: unknown tool "fetch_weather".`, out)
}
