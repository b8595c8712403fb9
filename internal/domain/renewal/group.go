// internal/domain/renewal/group.go
package renewal

// GroupByAgent partitions policies by their owning agent. Groups appear in
// first-seen order and each group's policies preserve fetch order. Policies
// with missing client/agent linkage (NULL agent id from the outer join) are
// silently excluded: they appear in no group and raise no error.
func GroupByAgent(policies []ExpiringPolicy) []AgentGroup {
	index := make(map[int64]int)
	groups := make([]AgentGroup, 0)

	for _, p := range policies {
		if !p.AgentID.Valid {
			continue
		}

		id := p.AgentID.Int64
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, AgentGroup{
				AgentID:        id,
				AgentReference: p.AgentReference.String,
				AgentPhone:     p.AgentPhone,
				AgentEmail:     p.AgentEmail,
			})
		}
		groups[i].Policies = append(groups[i].Policies, p)
	}

	return groups
}
