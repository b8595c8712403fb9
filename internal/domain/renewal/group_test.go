// internal/domain/renewal/group_test.go
package renewal

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiring(policyNumber string, agentID int64) ExpiringPolicy {
	return ExpiringPolicy{
		PolicyNumber:   policyNumber,
		AgentID:        sql.NullInt64{Int64: agentID, Valid: true},
		AgentReference: sql.NullString{String: "agent-ref", Valid: true},
	}
}

func TestGroupByAgentPartitionsByAgent(t *testing.T) {
	policies := []ExpiringPolicy{
		expiring("POL-1", 7),
		expiring("POL-2", 9),
		expiring("POL-3", 7),
		expiring("POL-4", 9),
		expiring("POL-5", 7),
	}

	groups := GroupByAgent(policies)
	require.Len(t, groups, 2)

	// First-seen order: agent 7 before agent 9.
	assert.Equal(t, int64(7), groups[0].AgentID)
	assert.Equal(t, int64(9), groups[1].AgentID)

	var first []string
	for _, p := range groups[0].Policies {
		first = append(first, p.PolicyNumber)
	}
	assert.Equal(t, []string{"POL-1", "POL-3", "POL-5"}, first)

	var second []string
	for _, p := range groups[1].Policies {
		second = append(second, p.PolicyNumber)
	}
	assert.Equal(t, []string{"POL-2", "POL-4"}, second)
}

func TestGroupByAgentDropsMissingLinkage(t *testing.T) {
	policies := []ExpiringPolicy{
		expiring("POL-1", 7),
		{PolicyNumber: "POL-ORPHAN"}, // NULL agent from the outer join
		expiring("POL-2", 7),
	}

	groups := GroupByAgent(policies)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Policies, 2)
	for _, p := range groups[0].Policies {
		assert.NotEqual(t, "POL-ORPHAN", p.PolicyNumber)
	}
}

func TestGroupByAgentCarriesAgentContact(t *testing.T) {
	p := expiring("POL-1", 7)
	p.AgentPhone = sql.NullString{String: "+254 700 111 222", Valid: true}
	p.AgentEmail = sql.NullString{String: "agent@example.com", Valid: true}

	groups := GroupByAgent([]ExpiringPolicy{p})
	require.Len(t, groups, 1)
	assert.Equal(t, "agent-ref", groups[0].AgentReference)
	assert.Equal(t, "+254 700 111 222", groups[0].AgentPhone.String)
	assert.Equal(t, "agent@example.com", groups[0].AgentEmail.String)
}

func TestGroupByAgentEmptyInput(t *testing.T) {
	assert.Empty(t, GroupByAgent(nil))
	assert.Empty(t, GroupByAgent([]ExpiringPolicy{}))
}
