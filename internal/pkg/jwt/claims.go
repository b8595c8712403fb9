// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims issued to dashboard agents.
type Claims struct {
	AgentID        int64  `json:"agent_id"`
	Role           string `json:"role,omitempty"`
	SessionPurpose string `json:"session_purpose"` // access, refresh, password_reset
	jwt.RegisteredClaims
}

// IsAdmin checks if the claims belong to an admin (including super admin).
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin" || c.Role == "super_admin"
}

// IsSuperAdmin checks if the claims belong to a super admin.
func (c *Claims) IsSuperAdmin() bool {
	return c.Role == "super_admin"
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
