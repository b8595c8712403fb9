// internal/domain/client/entity.go
package client

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Client struct {
	ID              int64  `json:"id" db:"id"`
	AgentID         int64  `json:"agent_id" db:"agent_id"`
	ClientReference string `json:"client_reference" db:"client_reference"`

	// Client details
	FullName    sql.NullString `json:"full_name,omitempty" db:"full_name"`
	PhoneNumber string         `json:"phone_number" db:"phone_number"`
	AltPhone    sql.NullString `json:"alt_phone,omitempty" db:"alt_phone"`
	Email       sql.NullString `json:"email,omitempty" db:"email"`
	DateOfBirth sql.NullTime   `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address     sql.NullString `json:"address,omitempty" db:"address"`

	// Status and flags
	IsActive bool `json:"is_active" db:"is_active"`

	// Additional info
	Notes sql.NullString `json:"notes,omitempty" db:"notes"`
	Tags  pq.StringArray `json:"tags,omitempty" db:"tags"`

	// Timestamps
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

type ClientStats struct {
	TotalClients  int64 `json:"total_clients"`
	ActiveClients int64 `json:"active_clients"`
	NewThisMonth  int64 `json:"new_this_month"`
}
