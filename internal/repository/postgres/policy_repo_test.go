// internal/repository/postgres/policy_repo_test.go
package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The renewal fetch predicate is the only place cancelled and soft-deleted
// policies are excluded from the job, so pin it down.
func TestFindExpiringQueryPredicates(t *testing.T) {
	assert.Contains(t, findExpiringQuery, "p.status <> 'Cancelled'")
	assert.Contains(t, findExpiringQuery, "p.end_date >= $1")
	assert.Contains(t, findExpiringQuery, "p.end_date <= $2")
	assert.Contains(t, findExpiringQuery, "p.deleted_at IS NULL")

	// Missing client/agent linkage must yield NULL columns for the grouping
	// step to drop, not filter rows out here.
	assert.Contains(t, findExpiringQuery, "LEFT JOIN clients c")
	assert.Contains(t, findExpiringQuery, "LEFT JOIN agents a")
	assert.Contains(t, findExpiringQuery, "c.deleted_at IS NULL")
	assert.Contains(t, findExpiringQuery, "a.deleted_at IS NULL")

	// Exactly the two window bounds are parameterized.
	assert.Equal(t, 1, strings.Count(findExpiringQuery, "$1"))
	assert.Equal(t, 1, strings.Count(findExpiringQuery, "$2"))
	assert.NotContains(t, findExpiringQuery, "$3")
}
