// internal/pkg/session/types.go
package session

import "time"

// Data holds the per-login session state stored in Redis.
type Data struct {
	JTI            string    `json:"jti"`
	AgentID        int64     `json:"agent_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
