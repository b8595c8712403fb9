// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

// ValidStatus reports whether s is one of the known lead statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID      int64 `json:"id" db:"id"`
	AgentID int64 `json:"agent_id" db:"agent_id"`

	FullName    string         `json:"full_name" db:"full_name"`
	PhoneNumber string         `json:"phone_number" db:"phone_number"`
	Email       sql.NullString `json:"email,omitempty" db:"email"`
	Source      sql.NullString `json:"source,omitempty" db:"source"`

	// Product category the lead is interested in (General/Health/Life).
	ProductInterest sql.NullString `json:"product_interest,omitempty" db:"product_interest"`

	Status     Status       `json:"status" db:"status"`
	FollowUpOn sql.NullTime `json:"follow_up_on,omitempty" db:"follow_up_on"`

	// Set when the lead is converted into a client.
	ConvertedClientID sql.NullInt64 `json:"converted_client_id,omitempty" db:"converted_client_id"`

	Notes sql.NullString `json:"notes,omitempty" db:"notes"`
	Tags  pq.StringArray `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

type LeadStats struct {
	TotalLeads     int64 `json:"total_leads"`
	OpenLeads      int64 `json:"open_leads"`
	ConvertedLeads int64 `json:"converted_leads"`
	NewThisMonth   int64 `json:"new_this_month"`
}
