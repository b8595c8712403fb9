// internal/service/lead/service.go
package lead

import (
	"context"
	"database/sql"
	"fmt"

	"insurica-service/internal/domain/client"
	"insurica-service/internal/domain/lead"
	"insurica-service/internal/domain/notification"
	xerrors "insurica-service/internal/pkg/errors"
	"insurica-service/internal/repository/postgres"
	notifsvc "insurica-service/internal/service/notification"
	ws "insurica-service/internal/websocket"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type LeadService struct {
	db            *postgres.DB
	leadRepo      *postgres.LeadRepository
	clientRepo    *postgres.ClientRepository
	notifications *notifsvc.NotificationService
	hub           *ws.Hub
	logger        *zap.Logger
}

func NewLeadService(
	db *postgres.DB,
	leadRepo *postgres.LeadRepository,
	clientRepo *postgres.ClientRepository,
	notifications *notifsvc.NotificationService,
	hub *ws.Hub,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:            db,
		leadRepo:      leadRepo,
		clientRepo:    clientRepo,
		notifications: notifications,
		hub:           hub,
		logger:        logger,
	}
}

// CreateLead records a new lead and pushes a dashboard event.
func (s *LeadService) CreateLead(ctx context.Context, agentID int64, req *lead.CreateLeadRequest) (*lead.Lead, error) {
	l := &lead.Lead{
		AgentID:         agentID,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Email:           sql.NullString{String: req.Email, Valid: req.Email != ""},
		Source:          sql.NullString{String: req.Source, Valid: req.Source != ""},
		ProductInterest: sql.NullString{String: req.ProductInterest, Valid: req.ProductInterest != ""},
		Status:          lead.StatusNew,
		Notes:           sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Tags:            pq.StringArray(req.Tags),
	}
	if req.FollowUpOn != nil {
		l.FollowUpOn = sql.NullTime{Time: *req.FollowUpOn, Valid: true}
	}

	if err := s.leadRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create lead", zap.Error(err))
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead created",
		zap.Int64("lead_id", l.ID),
		zap.Int64("agent_id", agentID),
	)

	if s.hub != nil {
		s.hub.PushToAgent(agentID, ws.NewEvent(ws.EventLeadCreated, l))
	}

	return l, nil
}

// GetLead retrieves a lead, verifying ownership.
func (s *LeadService) GetLead(ctx context.Context, agentID, leadID int64) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if l.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	return l, nil
}

// ListLeads retrieves an agent's leads with filters.
func (s *LeadService) ListLeads(ctx context.Context, agentID int64, filters *lead.LeadListFilters) (*lead.LeadListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	leads, total, err := s.leadRepo.List(ctx, agentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &lead.LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateLead updates a lead's fields. Conversion must go through
// ConvertToClient, not a plain status update.
func (s *LeadService) UpdateLead(ctx context.Context, agentID, leadID int64, req *lead.UpdateLeadRequest) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if l.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	if l.Status == lead.StatusConverted {
		return nil, fmt.Errorf("converted leads cannot be modified")
	}

	if req.FullName != nil {
		l.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		l.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		l.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.Source != nil {
		l.Source = sql.NullString{String: *req.Source, Valid: *req.Source != ""}
	}
	if req.ProductInterest != nil {
		l.ProductInterest = sql.NullString{String: *req.ProductInterest, Valid: *req.ProductInterest != ""}
	}
	if req.Status != nil {
		if !lead.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid lead status %q", *req.Status)
		}
		if *req.Status == lead.StatusConverted {
			return nil, fmt.Errorf("use the convert endpoint to convert a lead")
		}
		l.Status = *req.Status
	}
	if req.FollowUpOn != nil {
		l.FollowUpOn = sql.NullTime{Time: *req.FollowUpOn, Valid: true}
	}
	if req.Notes != nil {
		l.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}
	if req.Tags != nil {
		l.Tags = pq.StringArray(req.Tags)
	}

	if err := s.leadRepo.Update(ctx, leadID, l); err != nil {
		s.logger.Error("failed to update lead", zap.Error(err))
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return s.leadRepo.FindByID(ctx, leadID)
}

// ConvertToClient turns a lead into a client. The client insert and the
// lead's converted marker commit in one transaction, then a notification is
// pushed.
func (s *LeadService) ConvertToClient(ctx context.Context, agentID, leadID int64) (*client.Client, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if l.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	if l.Status == lead.StatusConverted {
		return nil, xerrors.ErrConflict
	}

	exists, err := s.clientRepo.ExistsByAgentAndPhone(ctx, agentID, l.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check client existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("client with phone number %s already exists", l.PhoneNumber)
	}

	c := &client.Client{
		AgentID:         agentID,
		ClientReference: ulid.Make().String(),
		FullName:        sql.NullString{String: l.FullName, Valid: l.FullName != ""},
		PhoneNumber:     l.PhoneNumber,
		Email:           l.Email,
		Notes:           l.Notes,
		Tags:            l.Tags,
		IsActive:        true,
	}

	err = s.db.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.clientRepo.CreateTx(ctx, tx, c); err != nil {
			return fmt.Errorf("failed to create client from lead: %w", err)
		}
		return s.leadRepo.MarkConverted(ctx, tx, leadID, c.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead converted to client",
		zap.Int64("lead_id", leadID),
		zap.Int64("client_id", c.ID),
		zap.Int64("agent_id", agentID),
	)

	if s.notifications != nil {
		if _, err := s.notifications.CreateAndPush(ctx, &notification.CreateNotificationRequest{
			AgentID: agentID,
			Title:   "Lead converted",
			Message: fmt.Sprintf("Lead %s is now a client.", l.FullName),
			Type:    notification.TypeLead,
		}); err != nil {
			s.logger.Warn("failed to push conversion notification", zap.Error(err))
		}
	}

	return c, nil
}

// DeleteLead soft deletes a lead.
func (s *LeadService) DeleteLead(ctx context.Context, agentID, leadID int64) error {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return err
	}

	if l.AgentID != agentID {
		return xerrors.ErrUnauthorized
	}

	if err := s.leadRepo.SoftDelete(ctx, leadID); err != nil {
		s.logger.Error("failed to delete lead", zap.Error(err))
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.logger.Info("lead deleted", zap.Int64("lead_id", leadID))
	return nil
}

// GetLeadStats returns funnel counts for the agent's leads.
func (s *LeadService) GetLeadStats(ctx context.Context, agentID int64) (*lead.LeadStats, error) {
	stats, err := s.leadRepo.Stats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead stats: %w", err)
	}
	return stats, nil
}
