// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"insurica-service/internal/domain/lead"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, agent_id, full_name, phone_number, email, source, product_interest,
	       status, follow_up_on, converted_client_id, notes, tags, created_at, updated_at, deleted_at`

func scanLead(row pgx.Row) (*lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(
		&l.ID, &l.AgentID, &l.FullName, &l.PhoneNumber, &l.Email, &l.Source, &l.ProductInterest,
		&l.Status, &l.FollowUpOn, &l.ConvertedClientID, &l.Notes, &l.Tags,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lead: %w", err)
	}
	return &l, nil
}

// Create inserts a new lead.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (
			agent_id, full_name, phone_number, email, source, product_interest,
			status, follow_up_on, notes, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		l.AgentID, l.FullName, l.PhoneNumber, l.Email, l.Source, l.ProductInterest,
		l.Status, l.FollowUpOn, l.Notes, l.Tags,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// FindByID retrieves a lead by ID.
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1 AND deleted_at IS NULL`, leadColumns)
	return scanLead(r.db.QueryRow(ctx, query, id))
}

// Update updates a lead's mutable fields.
func (r *LeadRepository) Update(ctx context.Context, id int64, l *lead.Lead) error {
	query := `
		UPDATE leads
		SET full_name = $1, phone_number = $2, email = $3, source = $4,
		    product_interest = $5, status = $6, follow_up_on = $7,
		    notes = $8, tags = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(
		ctx, query,
		l.FullName, l.PhoneNumber, l.Email, l.Source,
		l.ProductInterest, l.Status, l.FollowUpOn, l.Notes, l.Tags, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// MarkConverted records a lead's conversion into a client, inside the
// caller's transaction.
func (r *LeadRepository) MarkConverted(ctx context.Context, tx pgx.Tx, id, clientID int64) error {
	query := `
		UPDATE leads
		SET status = $1, converted_client_id = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := tx.Exec(ctx, query, lead.StatusConverted, clientID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark lead converted: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete soft deletes a lead.
func (r *LeadRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE leads SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves an agent's leads with filters and pagination.
func (r *LeadRepository) List(ctx context.Context, agentID int64, filters *lead.LeadListFilters) ([]lead.Lead, int64, error) {
	conditions := []string{"agent_id = $1", "deleted_at IS NULL"}
	args := []interface{}{agentID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.Source != "" {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argPos))
		args = append(args, filters.Source)
		argPos++
	}

	if filters.FollowUpDue != nil && *filters.FollowUpDue {
		conditions = append(conditions, "follow_up_on IS NOT NULL AND follow_up_on <= now()")
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR phone_number ILIKE $%d OR email ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	sortBy := "created_at"
	switch filters.SortBy {
	case "follow_up_on", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM leads WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		leadColumns, whereClause, sortBy, sortOrder, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		var l lead.Lead
		if err := rows.Scan(
			&l.ID, &l.AgentID, &l.FullName, &l.PhoneNumber, &l.Email, &l.Source, &l.ProductInterest,
			&l.Status, &l.FollowUpOn, &l.ConvertedClientID, &l.Notes, &l.Tags,
			&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}

	return leads, total, rows.Err()
}

// Stats returns lead funnel counts for the agent.
func (r *LeadRepository) Stats(ctx context.Context, agentID int64) (*lead.LeadStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status NOT IN ('converted', 'lost')),
			COUNT(*) FILTER (WHERE status = 'converted'),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', now()))
		FROM leads
		WHERE agent_id = $1 AND deleted_at IS NULL
	`

	var s lead.LeadStats
	err := r.db.QueryRow(ctx, query, agentID).Scan(&s.TotalLeads, &s.OpenLeads, &s.ConvertedLeads, &s.NewThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead stats: %w", err)
	}

	return &s, nil
}
