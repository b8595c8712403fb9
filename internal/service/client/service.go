// internal/service/client/service.go
package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"insurica-service/internal/domain/client"
	xerrors "insurica-service/internal/pkg/errors"
	"insurica-service/internal/repository/postgres"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type ClientService struct {
	clientRepo *postgres.ClientRepository
	logger     *zap.Logger
}

func NewClientService(clientRepo *postgres.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateClient creates a new client for an agent.
func (s *ClientService) CreateClient(ctx context.Context, agentID int64, req *client.CreateClientRequest) (*client.Client, error) {
	if err := validatePhoneNumber(req.PhoneNumber); err != nil {
		return nil, err
	}

	exists, err := s.clientRepo.ExistsByAgentAndPhone(ctx, agentID, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check client existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("client with phone number %s already exists", req.PhoneNumber)
	}

	c := &client.Client{
		AgentID:         agentID,
		ClientReference: ulid.Make().String(),
		FullName:        sql.NullString{String: req.FullName, Valid: req.FullName != ""},
		PhoneNumber:     req.PhoneNumber,
		AltPhone:        sql.NullString{String: req.AltPhone, Valid: req.AltPhone != ""},
		Email:           sql.NullString{String: req.Email, Valid: req.Email != ""},
		Address:         sql.NullString{String: req.Address, Valid: req.Address != ""},
		Notes:           sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Tags:            pq.StringArray(req.Tags),
		IsActive:        true,
	}
	if req.DateOfBirth != nil {
		c.DateOfBirth = sql.NullTime{Time: *req.DateOfBirth, Valid: true}
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created",
		zap.Int64("client_id", c.ID),
		zap.String("client_reference", c.ClientReference),
		zap.Int64("agent_id", agentID),
	)

	return c, nil
}

// GetClient retrieves a client by ID, verifying ownership.
func (s *ClientService) GetClient(ctx context.Context, agentID, clientID int64) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if c.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	return c, nil
}

// GetClientByReference retrieves a client by external reference.
func (s *ClientService) GetClientByReference(ctx context.Context, agentID int64, reference string) (*client.Client, error) {
	c, err := s.clientRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if c.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	return c, nil
}

// ListClients retrieves an agent's clients with filters.
func (s *ClientService) ListClients(ctx context.Context, agentID int64, filters *client.ClientListFilters) (*client.ClientListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	clients, total, err := s.clientRepo.List(ctx, agentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &client.ClientListResponse{
		Clients:    clients,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateClient updates a client's fields.
func (s *ClientService) UpdateClient(ctx context.Context, agentID, clientID int64, req *client.UpdateClientRequest) (*client.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if c.AgentID != agentID {
		return nil, xerrors.ErrUnauthorized
	}

	if req.FullName != nil {
		c.FullName = sql.NullString{String: *req.FullName, Valid: *req.FullName != ""}
	}
	if req.PhoneNumber != nil {
		if err := validatePhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
		if *req.PhoneNumber != c.PhoneNumber {
			exists, err := s.clientRepo.ExistsByAgentAndPhone(ctx, agentID, *req.PhoneNumber)
			if err != nil {
				return nil, fmt.Errorf("failed to check phone existence: %w", err)
			}
			if exists {
				return nil, fmt.Errorf("phone number already in use by another client")
			}
		}
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.AltPhone != nil {
		c.AltPhone = sql.NullString{String: *req.AltPhone, Valid: *req.AltPhone != ""}
	}
	if req.Email != nil {
		c.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.DateOfBirth != nil {
		c.DateOfBirth = sql.NullTime{Time: *req.DateOfBirth, Valid: true}
	}
	if req.Address != nil {
		c.Address = sql.NullString{String: *req.Address, Valid: *req.Address != ""}
	}
	if req.Notes != nil {
		c.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}
	if req.Tags != nil {
		c.Tags = pq.StringArray(req.Tags)
	}

	if err := s.clientRepo.Update(ctx, clientID, c); err != nil {
		s.logger.Error("failed to update client", zap.Error(err))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.logger.Info("client updated",
		zap.Int64("client_id", clientID),
		zap.Int64("agent_id", agentID),
	)

	return s.clientRepo.FindByID(ctx, clientID)
}

// ActivateClient activates a client.
func (s *ClientService) ActivateClient(ctx context.Context, agentID, clientID int64) error {
	return s.setClientStatus(ctx, agentID, clientID, true)
}

// DeactivateClient deactivates a client.
func (s *ClientService) DeactivateClient(ctx context.Context, agentID, clientID int64) error {
	return s.setClientStatus(ctx, agentID, clientID, false)
}

func (s *ClientService) setClientStatus(ctx context.Context, agentID, clientID int64, active bool) error {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	if c.AgentID != agentID {
		return xerrors.ErrUnauthorized
	}

	if err := s.clientRepo.UpdateStatus(ctx, clientID, active); err != nil {
		return fmt.Errorf("failed to update client status: %w", err)
	}

	s.logger.Info("client status updated",
		zap.Int64("client_id", clientID),
		zap.Bool("is_active", active),
	)

	return nil
}

// DeleteClient soft deletes a client.
func (s *ClientService) DeleteClient(ctx context.Context, agentID, clientID int64) error {
	c, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	if c.AgentID != agentID {
		return xerrors.ErrUnauthorized
	}

	if err := s.clientRepo.SoftDelete(ctx, clientID); err != nil {
		s.logger.Error("failed to delete client", zap.Error(err))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted",
		zap.Int64("client_id", clientID),
		zap.Int64("agent_id", agentID),
	)

	return nil
}

// GetClientStats retrieves counts for the agent's client book.
func (s *ClientService) GetClientStats(ctx context.Context, agentID int64) (*client.ClientStats, error) {
	stats, err := s.clientRepo.Stats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client stats: %w", err)
	}
	return stats, nil
}

// validatePhoneNumber checks basic phone number shape: optional leading +,
// digits only, 9 to 13 characters.
func validatePhoneNumber(phone string) error {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)

	if len(phone) < 9 || len(phone) > 13 {
		return fmt.Errorf("invalid phone number length")
	}

	for i, char := range phone {
		if i == 0 && char == '+' {
			continue
		}
		if char < '0' || char > '9' {
			return fmt.Errorf("phone number must contain only digits")
		}
	}

	return nil
}
