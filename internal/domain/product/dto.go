// internal/domain/product/dto.go
package product

type CreateProductRequest struct {
	Code              string   `json:"code" binding:"required,max=32"`
	Name              string   `json:"name" binding:"required,max=255"`
	Category          string   `json:"category" binding:"required,oneof=General Health Life"`
	Insurer           string   `json:"insurer" binding:"required,max=255"`
	Description       string   `json:"description"`
	MinPremium        *float64 `json:"min_premium" binding:"omitempty,gt=0"`
	MaxPremium        *float64 `json:"max_premium" binding:"omitempty,gt=0"`
	CommissionPercent *float64 `json:"commission_percent" binding:"omitempty,gte=0,lte=100"`
}

type UpdateProductRequest struct {
	Name              *string  `json:"name" binding:"omitempty,max=255"`
	Insurer           *string  `json:"insurer" binding:"omitempty,max=255"`
	Description       *string  `json:"description"`
	MinPremium        *float64 `json:"min_premium" binding:"omitempty,gt=0"`
	MaxPremium        *float64 `json:"max_premium" binding:"omitempty,gt=0"`
	CommissionPercent *float64 `json:"commission_percent" binding:"omitempty,gte=0,lte=100"`
}

type ProductListFilters struct {
	Category  string `form:"category" binding:"omitempty,oneof=General Health Life"`
	Insurer   string `form:"insurer"`
	IsActive  *bool  `form:"is_active"`
	Search    string `form:"search"` // code, name
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
	SortBy    string `form:"sort_by"` // name, created_at
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type ProductListResponse struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
