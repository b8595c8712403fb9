// internal/service/policy/service.go
package policy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"insurica-service/internal/domain/policy"
	"insurica-service/internal/domain/renewal"
	xerrors "insurica-service/internal/pkg/errors"
	"insurica-service/internal/repository/postgres"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// timeNow is swappable in tests.
var timeNow = time.Now

type PolicyService struct {
	policyRepo *postgres.PolicyRepository
	clientRepo *postgres.ClientRepository
	logger     *zap.Logger
}

func NewPolicyService(policyRepo *postgres.PolicyRepository, clientRepo *postgres.ClientRepository, logger *zap.Logger) *PolicyService {
	return &PolicyService{
		policyRepo: policyRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreatePolicy creates a policy for one of the agent's clients.
func (s *PolicyService) CreatePolicy(ctx context.Context, agentID int64, req *policy.CreatePolicyRequest) (*policy.Policy, error) {
	if !policy.ValidCategory(req.Category) {
		return nil, fmt.Errorf("invalid policy category %q", req.Category)
	}

	status := req.Status
	if status == "" {
		status = policy.StatusActive
	}
	if !policy.ValidStatus(status) {
		return nil, fmt.Errorf("invalid policy status %q", status)
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	// The client must exist and belong to this agent.
	c, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if c.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	exists, err := s.policyRepo.ExistsByNumber(ctx, req.PolicyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check policy number: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("policy number %s already exists", req.PolicyNumber)
	}

	p := &policy.Policy{
		PolicyNumber: req.PolicyNumber,
		ClientID:     req.ClientID,
		Category:     req.Category,
		Insurer:      req.Insurer,
		Premium:      req.Premium,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       status,
		Documents:    pq.StringArray(req.Documents),
	}
	if req.SumAssured != nil {
		p.SumAssured = sql.NullFloat64{Float64: *req.SumAssured, Valid: true}
	}

	if err := s.policyRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create policy", zap.Error(err))
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}

	s.logger.Info("policy created",
		zap.Int64("policy_id", p.ID),
		zap.String("policy_number", p.PolicyNumber),
		zap.Int64("client_id", p.ClientID),
	)

	return p, nil
}

// GetPolicy retrieves a policy, verifying the owning client belongs to the
// agent.
func (s *PolicyService) GetPolicy(ctx context.Context, agentID, policyID int64) (*policy.Policy, error) {
	p, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyOwnership(ctx, agentID, p.ClientID); err != nil {
		return nil, err
	}

	return p, nil
}

// ListPolicies retrieves policies across the agent's clients with filters.
func (s *PolicyService) ListPolicies(ctx context.Context, agentID int64, filters *policy.PolicyListFilters) (*policy.PolicyListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	policies, total, err := s.policyRepo.List(ctx, agentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &policy.PolicyListResponse{
		Policies:   policies,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdatePolicy updates a policy's mutable fields.
func (s *PolicyService) UpdatePolicy(ctx context.Context, agentID, policyID int64, req *policy.UpdatePolicyRequest) (*policy.Policy, error) {
	p, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyOwnership(ctx, agentID, p.ClientID); err != nil {
		return nil, err
	}

	if req.Insurer != nil {
		p.Insurer = *req.Insurer
	}
	if req.Premium != nil {
		p.Premium = *req.Premium
	}
	if req.SumAssured != nil {
		p.SumAssured = sql.NullFloat64{Float64: *req.SumAssured, Valid: true}
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = *req.EndDate
	}
	if req.Documents != nil {
		p.Documents = pq.StringArray(req.Documents)
	}

	if !p.EndDate.After(p.StartDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	if err := s.policyRepo.Update(ctx, policyID, p); err != nil {
		s.logger.Error("failed to update policy", zap.Error(err))
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}

	s.logger.Info("policy updated", zap.Int64("policy_id", policyID))

	return s.policyRepo.FindByID(ctx, policyID)
}

// UpdatePolicyStatus transitions a policy to a new status.
func (s *PolicyService) UpdatePolicyStatus(ctx context.Context, agentID, policyID int64, status policy.Status) (*policy.Policy, error) {
	if !policy.ValidStatus(status) {
		return nil, fmt.Errorf("invalid policy status %q", status)
	}

	p, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return nil, err
	}

	if err := s.verifyOwnership(ctx, agentID, p.ClientID); err != nil {
		return nil, err
	}

	if err := s.policyRepo.UpdateStatus(ctx, policyID, status); err != nil {
		return nil, err
	}

	s.logger.Info("policy status updated",
		zap.Int64("policy_id", policyID),
		zap.String("status", string(status)),
	)

	return s.policyRepo.FindByID(ctx, policyID)
}

// DeletePolicy soft deletes a policy.
func (s *PolicyService) DeletePolicy(ctx context.Context, agentID, policyID int64) error {
	p, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		return err
	}

	if err := s.verifyOwnership(ctx, agentID, p.ClientID); err != nil {
		return err
	}

	if err := s.policyRepo.SoftDelete(ctx, policyID); err != nil {
		s.logger.Error("failed to delete policy", zap.Error(err))
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	s.logger.Info("policy deleted", zap.Int64("policy_id", policyID))
	return nil
}

// GetPolicyStats returns counts and premium due for the agent's book,
// relative to next month's renewal window.
func (s *PolicyService) GetPolicyStats(ctx context.Context, agentID int64) (*policy.PolicyStats, error) {
	window := renewal.NextMonthWindow(timeNow())
	stats, err := s.policyRepo.Stats(ctx, agentID, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, fmt.Errorf("failed to get policy stats: %w", err)
	}
	return stats, nil
}

func (s *PolicyService) verifyOwnership(ctx context.Context, agentID, clientID int64) error {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	if c.AgentID != agentID {
		return xerrors.ErrUnauthorized
	}
	return nil
}
