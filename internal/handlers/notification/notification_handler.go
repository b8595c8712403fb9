// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/notification"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications retrieves the agent's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var filters notification.NotificationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), agentID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list notifications")
		return
	}

	response.Success(c, http.StatusOK, "notifications retrieved", result)
}

// UnreadCount returns the unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	count, err := h.notificationService.UnreadCount(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to count notifications")
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", gin.H{"unread_count": count})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid notification ID", err)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), agentID, notificationID); err != nil {
		response.FromError(c, err, "failed to mark notification read")
		return
	}

	response.Success(c, http.StatusOK, "notification marked read", nil)
}

// MarkAllRead marks all of the agent's notifications as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	if err := h.notificationService.MarkAllRead(c.Request.Context(), agentID); err != nil {
		response.FromError(c, err, "failed to mark notifications read")
		return
	}

	response.Success(c, http.StatusOK, "notifications marked read", nil)
}
