// internal/domain/lead/dto.go
package lead

import "time"

type CreateLeadRequest struct {
	FullName        string     `json:"full_name" binding:"required,max=255"`
	PhoneNumber     string     `json:"phone_number" binding:"required,max=20"`
	Email           string     `json:"email" binding:"omitempty,email,max=255"`
	Source          string     `json:"source" binding:"max=100"`
	ProductInterest string     `json:"product_interest" binding:"max=50"`
	FollowUpOn      *time.Time `json:"follow_up_on"`
	Notes           string     `json:"notes"`
	Tags            []string   `json:"tags"`
}

type UpdateLeadRequest struct {
	FullName        *string    `json:"full_name" binding:"omitempty,max=255"`
	PhoneNumber     *string    `json:"phone_number" binding:"omitempty,max=20"`
	Email           *string    `json:"email" binding:"omitempty,email,max=255"`
	Source          *string    `json:"source" binding:"omitempty,max=100"`
	ProductInterest *string    `json:"product_interest" binding:"omitempty,max=50"`
	Status          *Status    `json:"status"`
	FollowUpOn      *time.Time `json:"follow_up_on"`
	Notes           *string    `json:"notes"`
	Tags            []string   `json:"tags"`
}

type LeadListFilters struct {
	Status      *Status `form:"status"`
	Source      string  `form:"source"`
	FollowUpDue *bool   `form:"follow_up_due"` // follow_up_on <= today
	Search      string  `form:"search"`        // name, phone, email
	Page        int     `form:"page" binding:"min=0"`
	PageSize    int     `form:"page_size" binding:"min=0,max=100"`
	SortBy      string  `form:"sort_by"` // created_at, follow_up_on
	SortOrder   string  `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type LeadListResponse struct {
	Leads      []Lead `json:"leads"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}
