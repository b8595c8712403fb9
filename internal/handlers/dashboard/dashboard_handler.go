// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetSummary returns the dashboard aggregate for the agent.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to load dashboard summary")
		return
	}

	response.Success(c, http.StatusOK, "dashboard summary retrieved", summary)
}
