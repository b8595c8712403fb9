// internal/domain/policy/dto.go
package policy

import "time"

type CreatePolicyRequest struct {
	PolicyNumber string   `json:"policy_number" binding:"required,max=64"`
	ClientID     int64    `json:"client_id" binding:"required"`
	Category     Category `json:"category" binding:"required"`
	Insurer      string   `json:"insurer" binding:"required,max=255"`

	Premium    float64  `json:"premium" binding:"required,gt=0"`
	SumAssured *float64 `json:"sum_assured" binding:"omitempty,gt=0"`

	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`

	Status    Status   `json:"status"`
	Documents []string `json:"documents"`
}

type UpdatePolicyRequest struct {
	Insurer    *string  `json:"insurer" binding:"omitempty,max=255"`
	Premium    *float64 `json:"premium" binding:"omitempty,gt=0"`
	SumAssured *float64 `json:"sum_assured" binding:"omitempty,gt=0"`

	StartDate *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"end_date" time_format:"2006-01-02"`

	Documents []string `json:"documents"`
}

type PolicyListFilters struct {
	ClientID       *int64    `form:"client_id"`
	Category       *Category `form:"category"`
	Status         *Status   `form:"status"`
	ExpiringAfter  string    `form:"expiring_after"`  // YYYY-MM-DD
	ExpiringBefore string    `form:"expiring_before"` // YYYY-MM-DD
	Search         string    `form:"search"`          // policy number
	Page           int       `form:"page" binding:"min=0"`
	PageSize       int       `form:"page_size" binding:"min=0,max=100"`
	SortBy         string    `form:"sort_by"` // end_date, created_at, premium
	SortOrder      string    `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type PolicyListResponse struct {
	Policies   []Policy `json:"policies"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
