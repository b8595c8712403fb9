// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/lead"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

// CreateLead records a new lead.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var req lead.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.leadService.CreateLead(c.Request.Context(), agentID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create lead")
		return
	}

	response.Success(c, http.StatusCreated, "lead created", result)
}

// GetLead retrieves a lead by ID.
func (h *LeadHandler) GetLead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid lead ID", err)
		return
	}

	result, err := h.leadService.GetLead(c.Request.Context(), agentID, leadID)
	if err != nil {
		response.FromError(c, err, "failed to load lead")
		return
	}

	response.Success(c, http.StatusOK, "lead retrieved", result)
}

// ListLeads retrieves leads with filters.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var filters lead.LeadListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.leadService.ListLeads(c.Request.Context(), agentID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, "leads retrieved", result)
}

// UpdateLead updates a lead.
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid lead ID", err)
		return
	}

	var req lead.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.leadService.UpdateLead(c.Request.Context(), agentID, leadID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update lead")
		return
	}

	response.Success(c, http.StatusOK, "lead updated", result)
}

// ConvertLead converts a lead into a client.
func (h *LeadHandler) ConvertLead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid lead ID", err)
		return
	}

	result, err := h.leadService.ConvertToClient(c.Request.Context(), agentID, leadID)
	if err != nil {
		response.FromError(c, err, "failed to convert lead")
		return
	}

	response.Success(c, http.StatusCreated, "lead converted", result)
}

// DeleteLead soft deletes a lead.
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid lead ID", err)
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), agentID, leadID); err != nil {
		response.FromError(c, err, "failed to delete lead")
		return
	}

	response.Success(c, http.StatusOK, "lead deleted", nil)
}

// GetLeadStats returns funnel counts for the agent's leads.
func (h *LeadHandler) GetLeadStats(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	stats, err := h.leadService.GetLeadStats(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to load lead stats")
		return
	}

	response.Success(c, http.StatusOK, "lead stats retrieved", stats)
}
