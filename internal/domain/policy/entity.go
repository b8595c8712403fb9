// internal/domain/policy/entity.go
package policy

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Category string

const (
	CategoryGeneral Category = "General"
	CategoryHealth  Category = "Health"
	CategoryLife    Category = "Life"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusPending   Status = "Pending"
	StatusLapsed    Status = "Lapsed"
	StatusCancelled Status = "Cancelled"
)

// ValidCategory reports whether c is one of the known policy categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryGeneral, CategoryHealth, CategoryLife:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known policy statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusPending, StatusLapsed, StatusCancelled:
		return true
	}
	return false
}

type Policy struct {
	ID           int64    `json:"id" db:"id"`
	PolicyNumber string   `json:"policy_number" db:"policy_number"`
	ClientID     int64    `json:"client_id" db:"client_id"`
	Category     Category `json:"category" db:"category"`
	Insurer      string   `json:"insurer" db:"insurer"`

	Premium    float64         `json:"premium" db:"premium"`
	SumAssured sql.NullFloat64 `json:"sum_assured,omitempty" db:"sum_assured"`

	// Dates are calendar dates; time-of-day is never meaningful here.
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	Status    Status         `json:"status" db:"status"`
	Documents pq.StringArray `json:"documents,omitempty" db:"documents"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

type PolicyStats struct {
	TotalPolicies     int64   `json:"total_policies"`
	ActivePolicies    int64   `json:"active_policies"`
	ExpiringNextMonth int64   `json:"expiring_next_month"`
	PremiumDue        float64 `json:"premium_due_next_month"`
}
