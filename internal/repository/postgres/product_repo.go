// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"insurica-service/internal/domain/product"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, code, name, category, insurer, description,
	       min_premium, max_premium, commission_percent, is_active,
	       created_at, updated_at, deleted_at`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Category, &p.Insurer, &p.Description,
		&p.MinPremium, &p.MaxPremium, &p.CommissionPercent, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// Create inserts a new catalogue product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (
			code, name, category, insurer, description,
			min_premium, max_premium, commission_percent, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Code, p.Name, p.Category, p.Insurer, p.Description,
		p.MinPremium, p.MaxPremium, p.CommissionPercent, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND deleted_at IS NULL`, productColumns)
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

// FindByCode retrieves a product by its catalogue code.
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*product.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE code = $1 AND deleted_at IS NULL`, productColumns)
	return scanProduct(r.db.QueryRow(ctx, query, code))
}

// Update updates a product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, id int64, p *product.Product) error {
	query := `
		UPDATE products
		SET name = $1, insurer = $2, description = $3, min_premium = $4,
		    max_premium = $5, commission_percent = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(
		ctx, query,
		p.Name, p.Insurer, p.Description, p.MinPremium,
		p.MaxPremium, p.CommissionPercent, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive toggles a product's availability.
func (r *ProductRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete soft deletes a product.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves catalogue products with filters and pagination.
func (r *ProductRepository) List(ctx context.Context, filters *product.ProductListFilters) ([]product.Product, int64, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argPos := 1

	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, filters.Category)
		argPos++
	}

	if filters.Insurer != "" {
		conditions = append(conditions, fmt.Sprintf("insurer = $%d", argPos))
		args = append(args, filters.Insurer)
		argPos++
	}

	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filters.IsActive)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	sortBy := "name"
	switch filters.SortBy {
	case "name", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		productColumns, whereClause, sortBy, sortOrder, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Category, &p.Insurer, &p.Description,
			&p.MinPremium, &p.MaxPremium, &p.CommissionPercent, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}
