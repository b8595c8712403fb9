// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"

	"insurica-service/internal/domain/notification"
	"insurica-service/internal/repository/postgres"
	ws "insurica-service/internal/websocket"

	"go.uber.org/zap"
)

// NotificationService persists agent notifications and pushes them to
// connected dashboard clients.
type NotificationService struct {
	repo   *postgres.NotificationRepository
	hub    *ws.Hub
	logger *zap.Logger
}

func NewNotificationService(repo *postgres.NotificationRepository, hub *ws.Hub, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

// CreateAndPush creates a notification and pushes it over the websocket hub.
func (s *NotificationService) CreateAndPush(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	if req.Type == "" {
		req.Type = notification.TypeInfo
	}

	n := &notification.Notification{
		AgentID: req.AgentID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.hub != nil {
		s.hub.PushToAgent(n.AgentID, ws.NewEvent(ws.EventNotification, n))
	}

	return n, nil
}

// List retrieves an agent's notifications plus the unread count.
func (s *NotificationService) List(ctx context.Context, agentID int64, filters *notification.NotificationListFilters) (*notification.NotificationListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	notifications, total, err := s.repo.List(ctx, agentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.UnreadCount(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &notification.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    totalPages,
	}, nil
}

// UnreadCount returns the agent's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, agentID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, agentID)
}

// MarkRead marks one notification read and pushes the new unread count.
func (s *NotificationService) MarkRead(ctx context.Context, agentID, id int64) error {
	if err := s.repo.MarkRead(ctx, agentID, id); err != nil {
		return err
	}

	s.pushUnreadCount(ctx, agentID)
	return nil
}

// MarkAllRead marks all the agent's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, agentID int64) error {
	if err := s.repo.MarkAllRead(ctx, agentID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.PushToAgent(agentID, ws.NewEvent(ws.EventNotificationCount, map[string]int64{"unread_count": 0}))
	}
	return nil
}

func (s *NotificationService) pushUnreadCount(ctx context.Context, agentID int64) {
	// Skip the count query when the agent has no open connections.
	if s.hub == nil || s.hub.ConnectedClients(agentID) == 0 {
		return
	}

	count, err := s.repo.UnreadCount(ctx, agentID)
	if err != nil {
		s.logger.Warn("failed to load unread count", zap.Error(err))
		return
	}

	s.hub.PushToAgent(agentID, ws.NewEvent(ws.EventNotificationCount, map[string]int64{"unread_count": count}))
}
