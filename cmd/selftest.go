package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/statline/dugout/internal/baseball"
)

const schemaPreviewLimit = 2000

// runSelfTest exercises the database tools without entering the chat loop:
// schema retrieval, a known query, and the SELECT-only safety check.
// Returns the process exit code.
func runSelfTest(db *sql.DB) int {
	ctx := context.Background()
	failures := 0

	fmt.Println("=== LOCAL DATABASE TOOLS TEST ===")
	fmt.Println()

	fmt.Println("TEST 1: get_schema")
	fmt.Println(strings.Repeat("-", 50))
	schema, err := baseball.NewSchemaReporter(db).Describe(ctx)
	switch {
	case err != nil:
		fmt.Printf("[FAIL] %v\n\n", err)
		failures++
	case schema == "":
		fmt.Println("[FAIL] schema report is empty")
		fmt.Println()
		failures++
	default:
		if len(schema) > schemaPreviewLimit {
			fmt.Println(schema[:schemaPreviewLimit] + "\n... [truncated]")
		} else {
			fmt.Println(schema)
		}
		fmt.Println("[PASS] Schema retrieved successfully")
		fmt.Println()
	}

	fmt.Println("TEST 2: query_database - Top 5 home run hitters in 1998")
	fmt.Println(strings.Repeat("-", 50))
	executor := baseball.NewExecutor(db)
	result := executor.Query(ctx,
		"SELECT TOP 5 p.nameFirst, p.nameLast, b.HR FROM Batting b JOIN People p ON b.playerID = p.playerID WHERE b.yearID = 1998 ORDER BY b.HR DESC")
	fmt.Println(result)
	if strings.HasPrefix(result, "Error") {
		fmt.Println("[FAIL] query should have returned rows")
		failures++
	} else {
		fmt.Println("[PASS] Query executed successfully")
	}
	fmt.Println()

	fmt.Println("TEST 3: query_database - Safety check (should reject DELETE)")
	fmt.Println(strings.Repeat("-", 50))
	rejection := executor.Query(ctx, "DELETE FROM People WHERE 1=1")
	fmt.Println(rejection)
	if strings.Contains(rejection, "Error") {
		fmt.Println("[PASS] Correctly rejected")
	} else {
		fmt.Println("[FAIL] Should have rejected")
		failures++
	}
	fmt.Println()

	fmt.Println("=== TESTS COMPLETE ===")
	if failures > 0 {
		return 1
	}
	return 0
}
