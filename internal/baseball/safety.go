// Package baseball exposes the Lahman database to the model through two
// tools: a schema reporter and a read-only query executor.
package baseball

import "strings"

// IsQuerySafe reports whether sql is a read-only query: after trimming
// leading whitespace it must begin with SELECT, case-insensitively.
//
// This is a prefix heuristic, not a parser. It does not catch statement
// stacking via ';' or a SELECT that invokes a mutating function. That gap
// is accepted for a single-trusted-operator CLI; hardening it means a real
// SQL parser, not more prefix checks.
func IsQuerySafe(sql string) bool {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) < len("SELECT") {
		return false
	}
	return strings.EqualFold(trimmed[:len("SELECT")], "SELECT")
}
