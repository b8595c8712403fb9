// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"
)

type NotificationType string

const (
	TypeSystem  NotificationType = "system"
	TypeLead    NotificationType = "lead"
	TypeRenewal NotificationType = "renewal"
	TypeInfo    NotificationType = "info"
)

type Notification struct {
	ID      int64            `json:"id" db:"id"`
	AgentID int64            `json:"agent_id" db:"agent_id"`
	Title   string           `json:"title" db:"title"`
	Message string           `json:"message" db:"message"`
	Type    NotificationType `json:"type" db:"type"`
	IsRead  bool             `json:"is_read" db:"is_read"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	ReadAt    sql.NullTime `json:"read_at,omitempty" db:"read_at"`
}

// DTOs

type CreateNotificationRequest struct {
	AgentID int64            `json:"agent_id" binding:"required"`
	Title   string           `json:"title" binding:"required,max=255"`
	Message string           `json:"message" binding:"required"`
	Type    NotificationType `json:"type"`
}

type NotificationListFilters struct {
	IsRead   *bool             `form:"is_read"`
	Type     *NotificationType `form:"type"`
	Page     int               `form:"page" binding:"min=0"`
	PageSize int               `form:"page_size" binding:"min=0,max=100"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Unread        int64          `json:"unread"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
	TotalPages    int            `json:"total_pages"`
}
