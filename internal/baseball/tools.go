package baseball

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/statline/dugout/internal/anthropic"
)

// Tool names, part of the wire protocol with the provider.
const (
	ToolGetSchema     = "get_schema"
	ToolQueryDatabase = "query_database"
)

// Definitions returns the static tool surface exposed to the model.
func Definitions() []anthropic.ToolDefinition {
	return []anthropic.ToolDefinition{
		{
			Name: ToolGetSchema,
			Description: "Gets the database schema including all tables, columns, primary keys, " +
				"and relationship documentation. Use this first to understand what data is " +
				"available before writing queries.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name: ToolQueryDatabase,
			Description: "Executes a SQL SELECT query against the baseball database and returns " +
				"results. Only SELECT queries are allowed for safety. Returns up to 50 rows.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sql": map[string]any{
						"type":        "string",
						"description": "The SQL SELECT query to execute.",
					},
				},
				"required": []string{"sql"},
			},
		},
	}
}

// Toolset dispatches tool invocations to the schema reporter and query
// executor. Implements anthropic.ToolExecutor.
type Toolset struct {
	schema   *SchemaReporter
	executor *Executor
	echo     func(string) // optional, announces executed SQL to the user
}

// NewToolset wires the tools over one database handle. echo may be nil.
func NewToolset(db *sql.DB, echo func(string)) *Toolset {
	return &Toolset{
		schema:   NewSchemaReporter(db),
		executor: NewExecutor(db),
		echo:     echo,
	}
}

// Execute runs the named tool. Failures come back as error strings, never
// error values: every tool call must produce text for the model.
func (t *Toolset) Execute(ctx context.Context, name string, input json.RawMessage) string {
	switch name {
	case ToolGetSchema:
		report, err := t.schema.Describe(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("schema report failed")
			return fmt.Sprintf("Error reading schema: %v", err)
		}
		return report

	case ToolQueryDatabase:
		sqlText := gjson.GetBytes(input, "sql").String()
		if sqlText == "" {
			return "Error: query_database requires a 'sql' argument."
		}
		if t.echo != nil {
			t.echo(sqlText)
		}
		return t.executor.Query(ctx, sqlText)

	default:
		return fmt.Sprintf("Error: unknown tool %q.", name)
	}
}
