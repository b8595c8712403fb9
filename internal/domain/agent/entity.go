// internal/domain/agent/entity.go
package agent

import (
	"database/sql"
	"time"
)

const (
	RoleAgent      = "agent"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Agent struct {
	ID             int64  `json:"id" db:"id"`
	AgentReference string `json:"agent_reference" db:"agent_reference"`
	FullName       string `json:"full_name" db:"full_name"`
	Email          string `json:"email" db:"email"`

	// Phone may legitimately be absent; renewal delivery skips such agents.
	Phone sql.NullString `json:"phone,omitempty" db:"phone"`

	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}
