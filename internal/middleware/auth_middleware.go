// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"insurica-service/internal/pkg/jwt"
	"insurica-service/internal/pkg/response"
	"insurica-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
	sessions *session.Manager
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
	}
}

// Auth validates the bearer token and its backing session, and stores the
// agent identity on the request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		if _, err := m.sessions.GetSession(c.Request.Context(), claims.AgentID, claims.ID); err != nil {
			response.Unauthorized(c, "session expired")
			return
		}

		c.Set("agent_id", claims.AgentID)
		c.Set("jti", claims.ID)
		c.Set("role", claims.Role)

		// Best-effort activity bump.
		_ = m.sessions.TouchSession(c.Request.Context(), claims.AgentID, claims.ID)

		c.Next()
	}
}

// RequireRole restricts the route to agents holding one of the given roles.
// Must run after Auth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Forbidden(c, "authentication required")
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "insufficient permissions")
	}
}

// AdminOnly composes Auth with an admin/super-admin role check.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole("admin", "super_admin"),
	}
}

// SuperAdminOnly composes Auth with a super-admin role check.
func (m *AuthMiddleware) SuperAdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole("super_admin"),
	}
}

// extractToken extracts the bearer token from the Authorization header, with
// a query-param fallback for websocket upgrades.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return c.Query("token")
}

// GetAgentID gets the authenticated agent ID from context.
func GetAgentID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("agent_id")
	if !exists {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}

// GetJTI gets the session token ID from context.
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jti, ok := v.(string)
	return jti, ok
}

// GetRole gets the agent's role from context.
func GetRole(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}

	role, _ := v.(string)
	return role
}
