// internal/service/product/service.go
package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"insurica-service/internal/domain/product"
	xerrors "insurica-service/internal/pkg/errors"
	"insurica-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// ProductService manages the shared product catalogue. Reads are open to all
// agents; writes are admin-only, enforced by middleware.
type ProductService struct {
	productRepo *postgres.ProductRepository
	logger      *zap.Logger
}

func NewProductService(productRepo *postgres.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProduct adds a catalogue product.
func (s *ProductService) CreateProduct(ctx context.Context, req *product.CreateProductRequest) (*product.Product, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	if _, err := s.productRepo.FindByCode(ctx, code); err == nil {
		return nil, xerrors.ErrConflict
	} else if !xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	if req.MinPremium != nil && req.MaxPremium != nil && *req.MaxPremium < *req.MinPremium {
		return nil, fmt.Errorf("max premium must not be below min premium")
	}

	p := &product.Product{
		Code:        code,
		Name:        req.Name,
		Category:    req.Category,
		Insurer:     req.Insurer,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		IsActive:    true,
	}
	if req.MinPremium != nil {
		p.MinPremium = sql.NullFloat64{Float64: *req.MinPremium, Valid: true}
	}
	if req.MaxPremium != nil {
		p.MaxPremium = sql.NullFloat64{Float64: *req.MaxPremium, Valid: true}
	}
	if req.CommissionPercent != nil {
		p.CommissionPercent = sql.NullFloat64{Float64: *req.CommissionPercent, Valid: true}
	}

	if err := s.productRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create product", zap.Error(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("code", p.Code),
	)

	return p, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// GetProductByCode retrieves a product by catalogue code.
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*product.Product, error) {
	return s.productRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListProducts retrieves catalogue products with filters.
func (s *ProductService) ListProducts(ctx context.Context, filters *product.ProductListFilters) (*product.ProductListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	products, total, err := s.productRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &product.ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateProduct updates a product's mutable fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *product.UpdateProductRequest) (*product.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Insurer != nil {
		p.Insurer = *req.Insurer
	}
	if req.Description != nil {
		p.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.MinPremium != nil {
		p.MinPremium = sql.NullFloat64{Float64: *req.MinPremium, Valid: true}
	}
	if req.MaxPremium != nil {
		p.MaxPremium = sql.NullFloat64{Float64: *req.MaxPremium, Valid: true}
	}
	if req.CommissionPercent != nil {
		p.CommissionPercent = sql.NullFloat64{Float64: *req.CommissionPercent, Valid: true}
	}

	if p.MinPremium.Valid && p.MaxPremium.Valid && p.MaxPremium.Float64 < p.MinPremium.Float64 {
		return nil, fmt.Errorf("max premium must not be below min premium")
	}

	if err := s.productRepo.Update(ctx, id, p); err != nil {
		s.logger.Error("failed to update product", zap.Error(err))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("product updated", zap.Int64("product_id", id))

	return s.productRepo.FindByID(ctx, id)
}

// SetProductActive toggles a product's availability in the catalogue.
func (s *ProductService) SetProductActive(ctx context.Context, id int64, active bool) error {
	if err := s.productRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Info("product status updated",
		zap.Int64("product_id", id),
		zap.Bool("is_active", active),
	)

	return nil
}

// DeleteProduct soft deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}
