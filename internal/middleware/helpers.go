// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetAgentID gets the agent ID from context or panics. Only for routes
// behind Auth, where the recovery middleware turns a miss into a 500.
func MustGetAgentID(c *gin.Context) int64 {
	agentID, exists := GetAgentID(c)
	if !exists {
		panic("agent_id not found in context")
	}
	return agentID
}

// MustGetJTI gets the token ID from context or panics.
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}
