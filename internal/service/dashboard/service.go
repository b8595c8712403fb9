// internal/service/dashboard/service.go
package dashboard

import (
	"context"
	"fmt"

	clientsvc "insurica-service/internal/service/client"
	leadsvc "insurica-service/internal/service/lead"
	policysvc "insurica-service/internal/service/policy"

	"insurica-service/internal/domain/client"
	"insurica-service/internal/domain/lead"
	"insurica-service/internal/domain/policy"
)

// Summary is the dashboard landing-page aggregate for one agent.
type Summary struct {
	Clients  *client.ClientStats `json:"clients"`
	Policies *policy.PolicyStats `json:"policies"`
	Leads    *lead.LeadStats     `json:"leads"`
}

type DashboardService struct {
	clients  *clientsvc.ClientService
	policies *policysvc.PolicyService
	leads    *leadsvc.LeadService
}

func NewDashboardService(clients *clientsvc.ClientService, policies *policysvc.PolicyService, leads *leadsvc.LeadService) *DashboardService {
	return &DashboardService{
		clients:  clients,
		policies: policies,
		leads:    leads,
	}
}

// GetSummary collects client, policy, and lead stats for the agent.
func (s *DashboardService) GetSummary(ctx context.Context, agentID int64) (*Summary, error) {
	clientStats, err := s.clients.GetClientStats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client stats: %w", err)
	}

	policyStats, err := s.policies.GetPolicyStats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy stats: %w", err)
	}

	leadStats, err := s.leads.GetLeadStats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead stats: %w", err)
	}

	return &Summary{
		Clients:  clientStats,
		Policies: policyStats,
		Leads:    leadStats,
	}, nil
}
