// internal/domain/product/entity.go
package product

import (
	"database/sql"
	"time"
)

type Product struct {
	ID       int64  `json:"id" db:"id"`
	Code     string `json:"code" db:"code"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"` // General/Health/Life
	Insurer  string `json:"insurer" db:"insurer"`

	Description sql.NullString `json:"description,omitempty" db:"description"`

	MinPremium        sql.NullFloat64 `json:"min_premium,omitempty" db:"min_premium"`
	MaxPremium        sql.NullFloat64 `json:"max_premium,omitempty" db:"max_premium"`
	CommissionPercent sql.NullFloat64 `json:"commission_percent,omitempty" db:"commission_percent"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}
