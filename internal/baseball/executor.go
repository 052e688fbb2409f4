package baseball

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/statline/dugout/internal/config"
)

// Executor runs read-only queries against the database and renders results
// as compact delimited text.
//
// DESIGN: Every failure becomes a textual error result, never a Go error:
// the tool loop expects a string for every invocation, and the model may
// retry with corrected SQL inside the same turn. The SELECT check is
// repeated here (defense in depth) because Query is reachable without the
// standalone filter.
type Executor struct {
	db      *sql.DB
	timeout time.Duration
	maxRows int
}

// NewExecutor wraps an open database handle.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{
		db:      db,
		timeout: config.QueryTimeout,
		maxRows: config.MaxQueryRows,
	}
}

// queryResult is the tagged success shape, rendered to text only at the
// tool boundary.
type queryResult struct {
	columns   []string
	rows      [][]string
	truncated bool
}

// Query executes sqlText and returns the rendered report or an error
// string.
func (e *Executor) Query(ctx context.Context, sqlText string) string {
	if !IsQuerySafe(sqlText) {
		return "Error: Only SELECT queries are allowed."
	}

	res, err := e.run(ctx, sqlText)
	if err != nil {
		log.Warn().Err(err).Str("sql", sqlText).Msg("query failed")
		return fmt.Sprintf("Error executing query: %v", err)
	}
	return render(res)
}

func (e *Executor) run(ctx context.Context, sqlText string) (*queryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &queryResult{columns: columns}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if len(res.rows) >= e.maxRows {
			res.truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.rows = append(res.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("rows", len(res.rows)).
		Bool("truncated", res.truncated).
		Dur("duration", time.Since(started)).
		Msg("query executed")
	return res, nil
}

// formatValue renders one cell. NULL is a literal marker so the model can
// tell it apart from an empty string.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// render emits the header row, a dashed rule, up to maxRows data rows and
// a trailing count of the rows actually returned.
func render(res *queryResult) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(res.columns, " | "))
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", len(res.columns)*15))
	sb.WriteByte('\n')
	for _, row := range res.rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf("\n(%d rows returned)\n", len(res.rows)))
	return sb.String()
}
