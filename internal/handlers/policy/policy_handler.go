// internal/handlers/policy/policy_handler.go
package policy

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/policy"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/policy"

	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	policyService *service.PolicyService
}

func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		policyService: policyService,
	}
}

// CreatePolicy creates a policy for one of the agent's clients.
func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var req policy.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.policyService.CreatePolicy(c.Request.Context(), agentID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create policy")
		return
	}

	response.Success(c, http.StatusCreated, "policy created", result)
}

// GetPolicy retrieves a policy by ID.
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	policyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid policy ID", err)
		return
	}

	result, err := h.policyService.GetPolicy(c.Request.Context(), agentID, policyID)
	if err != nil {
		response.FromError(c, err, "failed to load policy")
		return
	}

	response.Success(c, http.StatusOK, "policy retrieved", result)
}

// ListPolicies retrieves policies with filters.
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var filters policy.PolicyListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.policyService.ListPolicies(c.Request.Context(), agentID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list policies")
		return
	}

	response.Success(c, http.StatusOK, "policies retrieved", result)
}

// UpdatePolicy updates a policy.
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	policyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid policy ID", err)
		return
	}

	var req policy.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.policyService.UpdatePolicy(c.Request.Context(), agentID, policyID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update policy")
		return
	}

	response.Success(c, http.StatusOK, "policy updated", result)
}

// UpdatePolicyStatus transitions a policy's status.
func (h *PolicyHandler) UpdatePolicyStatus(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	policyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid policy ID", err)
		return
	}

	var req struct {
		Status policy.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.policyService.UpdatePolicyStatus(c.Request.Context(), agentID, policyID, req.Status)
	if err != nil {
		response.FromError(c, err, "failed to update policy status")
		return
	}

	response.Success(c, http.StatusOK, "policy status updated", result)
}

// DeletePolicy soft deletes a policy.
func (h *PolicyHandler) DeletePolicy(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	policyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid policy ID", err)
		return
	}

	if err := h.policyService.DeletePolicy(c.Request.Context(), agentID, policyID); err != nil {
		response.FromError(c, err, "failed to delete policy")
		return
	}

	response.Success(c, http.StatusOK, "policy deleted", nil)
}

// GetPolicyStats returns policy counts and premium due next month.
func (h *PolicyHandler) GetPolicyStats(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	stats, err := h.policyService.GetPolicyStats(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to load policy stats")
		return
	}

	response.Success(c, http.StatusOK, "policy stats retrieved", stats)
}
