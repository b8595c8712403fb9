// internal/domain/client/dto.go
package client

import "time"

type CreateClientRequest struct {
	FullName    string     `json:"full_name" binding:"max=255"`
	PhoneNumber string     `json:"phone_number" binding:"required,max=20"`
	AltPhone    string     `json:"alt_phone" binding:"max=20"`
	Email       string     `json:"email" binding:"omitempty,email,max=255"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" binding:"max=500"`
	Notes       string     `json:"notes"`
	Tags        []string   `json:"tags"`
}

type UpdateClientRequest struct {
	FullName    *string    `json:"full_name" binding:"omitempty,max=255"`
	PhoneNumber *string    `json:"phone_number" binding:"omitempty,max=20"`
	AltPhone    *string    `json:"alt_phone" binding:"omitempty,max=20"`
	Email       *string    `json:"email" binding:"omitempty,email,max=255"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address" binding:"omitempty,max=500"`
	Notes       *string    `json:"notes"`
	Tags        []string   `json:"tags"`
}

type ClientListFilters struct {
	IsActive  *bool    `form:"is_active"`
	Search    string   `form:"search"` // name, phone, email
	Tags      []string `form:"tags"`
	Page      int      `form:"page" binding:"min=0"`
	PageSize  int      `form:"page_size" binding:"min=0,max=100"`
	SortBy    string   `form:"sort_by"` // created_at, full_name
	SortOrder string   `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type ClientListResponse struct {
	Clients    []Client `json:"clients"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
