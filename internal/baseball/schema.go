package baseball

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// allowedTables is the fixed subset of the Lahman schema exposed to the
// model. Restricting the report to these tables cuts the schema's token
// footprint roughly in half while still covering the joins that answer
// nearly every stats question. Keys are the canonical table names.
var allowedTables = map[string]bool{
	"People":          true,
	"Batting":         true,
	"Pitching":        true,
	"Fielding":        true,
	"Teams":           true,
	"TeamsFranchises": true,
	"AwardsPlayers":   true,
	"AllstarFull":     true,
	"Appearances":     true,
	"BattingPost":     true,
	"PitchingPost":    true,
}

// SchemaReporter produces the condensed schema description served by the
// get_schema tool.
type SchemaReporter struct {
	db *sql.DB
}

// NewSchemaReporter wraps an open database handle.
func NewSchemaReporter(db *sql.DB) *SchemaReporter {
	return &SchemaReporter{db: db}
}

// Describe reports each allow-listed table with its primary key and column
// list, primary-key columns marked with '*'. The terse format is a
// deliberate token-budget optimization.
func (s *SchemaReporter) Describe(ctx context.Context) (string, error) {
	primaryKeys, err := s.primaryKeys(ctx)
	if err != nil {
		return "", fmt.Errorf("reading primary keys: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("=== LAHMAN BASEBALL DATABASE - KEY TABLES ===\n")
	sb.WriteString("Join keys: playerID->People, teamID+yearID+lgID->Teams, franchID->TeamsFranchises\n")

	tables := make([]string, 0, len(allowedTables))
	for t := range allowedTables {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	for _, table := range tables {
		pk := primaryKeys[table]
		sb.WriteString("\n" + table)
		if len(pk) > 0 {
			sb.WriteString(fmt.Sprintf(" (PK: %s)", strings.Join(pk, "+")))
		}
		sb.WriteByte('\n')

		columns, err := s.columns(ctx, table, pk)
		if err != nil {
			return "", fmt.Errorf("reading columns of %s: %w", table, err)
		}
		sb.WriteString("  " + strings.Join(columns, ", ") + "\n")
	}

	sb.WriteString("\nNote: Other tables exist (Salaries, Managers, Schools, etc.) - ask if needed.\n")
	return sb.String(), nil
}

// primaryKeys maps each allow-listed table to its ordered PK columns from
// the catalog.
func (s *SchemaReporter) primaryKeys(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT TABLE_NAME, COLUMN_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE
		WHERE CONSTRAINT_NAME LIKE 'PK_%'
		ORDER BY TABLE_NAME, ORDINAL_POSITION`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	keys := make(map[string][]string)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		if !allowedTables[table] {
			continue
		}
		keys[table] = append(keys[table], column)
	}
	return keys, rows.Err()
}

// columns lists a table's columns in ordinal order, marking PK columns.
func (s *SchemaReporter) columns(ctx context.Context, table string, pk []string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @table
		ORDER BY ORDINAL_POSITION`, sql.Named("table", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	pkSet := make(map[string]bool, len(pk))
	for _, c := range pk {
		pkSet[c] = true
	}

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if pkSet[name] {
			name += "*"
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
