// internal/handlers/client/client_handler.go
package client

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/client"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/client"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient creates a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.clientService.CreateClient(c.Request.Context(), agentID, &req)
	if err != nil {
		response.FromError(c, err, "failed to create client")
		return
	}

	response.Success(c, http.StatusCreated, "client created", result)
}

// GetClient retrieves a client by ID.
func (h *ClientHandler) GetClient(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid client ID", err)
		return
	}

	result, err := h.clientService.GetClient(c.Request.Context(), agentID, clientID)
	if err != nil {
		response.FromError(c, err, "failed to load client")
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

// GetClientByReference retrieves a client by external reference.
func (h *ClientHandler) GetClientByReference(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	reference := c.Param("reference")
	if reference == "" {
		response.ValidationError(c, "client reference is required", nil)
		return
	}

	result, err := h.clientService.GetClientByReference(c.Request.Context(), agentID, reference)
	if err != nil {
		response.FromError(c, err, "failed to load client")
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

// ListClients retrieves clients with filters.
func (h *ClientHandler) ListClients(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var filters client.ClientListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.clientService.ListClients(c.Request.Context(), agentID, &filters)
	if err != nil {
		response.FromError(c, err, "failed to list clients")
		return
	}

	response.Success(c, http.StatusOK, "clients retrieved", result)
}

// UpdateClient updates a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid client ID", err)
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.clientService.UpdateClient(c.Request.Context(), agentID, clientID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update client")
		return
	}

	response.Success(c, http.StatusOK, "client updated", result)
}

// SetClientStatus activates or deactivates a client.
func (h *ClientHandler) SetClientStatus(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid client ID", err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if *req.IsActive {
		err = h.clientService.ActivateClient(c.Request.Context(), agentID, clientID)
	} else {
		err = h.clientService.DeactivateClient(c.Request.Context(), agentID, clientID)
	}
	if err != nil {
		response.FromError(c, err, "failed to update client status")
		return
	}

	response.Success(c, http.StatusOK, "client status updated", nil)
}

// DeleteClient soft deletes a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid client ID", err)
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), agentID, clientID); err != nil {
		response.FromError(c, err, "failed to delete client")
		return
	}

	response.Success(c, http.StatusOK, "client deleted", nil)
}

// GetClientStats returns counts for the agent's client book.
func (h *ClientHandler) GetClientStats(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	stats, err := h.clientService.GetClientStats(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to load client stats")
		return
	}

	response.Success(c, http.StatusOK, "client stats retrieved", stats)
}
