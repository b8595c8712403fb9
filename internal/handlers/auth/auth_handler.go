// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/agent"
	"insurica-service/internal/middleware"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new agent account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req agent.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	a, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to register agent")
		return
	}

	response.Success(c, http.StatusCreated, "agent registered", a)
}

// Login authenticates an agent and returns tokens.
func (h *AuthHandler) Login(c *gin.Context) {
	var req agent.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), c.ClientIP(), c.Request.UserAgent(), &req)
	if err != nil {
		response.FromError(c, err, "failed to log in")
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err, "failed to refresh token")
		return
	}

	response.Success(c, http.StatusOK, "token refreshed", result)
}

// Logout closes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), agentID, jti); err != nil {
		response.FromError(c, err, "failed to log out")
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll closes every session for the agent.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	if err := h.authService.LogoutAll(c.Request.Context(), agentID); err != nil {
		response.FromError(c, err, "failed to log out")
		return
	}

	response.Success(c, http.StatusOK, "logged out everywhere", nil)
}

// Profile returns the authenticated agent's record.
func (h *AuthHandler) Profile(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	a, err := h.authService.GetProfile(c.Request.Context(), agentID)
	if err != nil {
		response.FromError(c, err, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", a)
}

// UpdateProfile updates the agent's own name and phone.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var req agent.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	a, err := h.authService.UpdateProfile(c.Request.Context(), agentID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, "profile updated", a)
}

// ChangePassword rotates the agent's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	agentID := middleware.MustGetAgentID(c)

	var req agent.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), agentID, &req); err != nil {
		response.FromError(c, err, "failed to change password")
		return
	}

	response.Success(c, http.StatusOK, "password changed", nil)
}

// ========== Admin Endpoints ==========

// ListAgents returns all agents.
func (h *AuthHandler) ListAgents(c *gin.Context) {
	agents, err := h.authService.ListAgents(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "failed to list agents")
		return
	}

	response.Success(c, http.StatusOK, "agents retrieved", agents)
}

// SetAgentActive activates or deactivates an agent account.
func (h *AuthHandler) SetAgentActive(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid agent ID", err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.SetAgentActive(c.Request.Context(), agentID, *req.IsActive); err != nil {
		response.FromError(c, err, "failed to update agent")
		return
	}

	response.Success(c, http.StatusOK, "agent updated", nil)
}
