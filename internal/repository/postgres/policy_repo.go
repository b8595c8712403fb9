// internal/repository/postgres/policy_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"insurica-service/internal/domain/policy"
	"insurica-service/internal/domain/renewal"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PolicyRepository struct {
	db *pgxpool.Pool
}

func NewPolicyRepository(db *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{db: db}
}

const policyColumns = `id, policy_number, client_id, category, insurer, premium, sum_assured,
	       start_date, end_date, status, documents, created_at, updated_at, deleted_at`

func scanPolicy(row pgx.Row) (*policy.Policy, error) {
	var p policy.Policy
	err := row.Scan(
		&p.ID, &p.PolicyNumber, &p.ClientID, &p.Category, &p.Insurer, &p.Premium, &p.SumAssured,
		&p.StartDate, &p.EndDate, &p.Status, &p.Documents, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan policy: %w", err)
	}
	return &p, nil
}

// Create inserts a new policy.
func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) error {
	query := `
		INSERT INTO policies (
			policy_number, client_id, category, insurer, premium, sum_assured,
			start_date, end_date, status, documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.PolicyNumber, p.ClientID, p.Category, p.Insurer, p.Premium, p.SumAssured,
		p.StartDate, p.EndDate, p.Status, p.Documents,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	return nil
}

// FindByID retrieves a policy by ID.
func (r *PolicyRepository) FindByID(ctx context.Context, id int64) (*policy.Policy, error) {
	query := fmt.Sprintf(`SELECT %s FROM policies WHERE id = $1 AND deleted_at IS NULL`, policyColumns)
	return scanPolicy(r.db.QueryRow(ctx, query, id))
}

// FindByNumber retrieves a policy by its policy number.
func (r *PolicyRepository) FindByNumber(ctx context.Context, number string) (*policy.Policy, error) {
	query := fmt.Sprintf(`SELECT %s FROM policies WHERE policy_number = $1 AND deleted_at IS NULL`, policyColumns)
	return scanPolicy(r.db.QueryRow(ctx, query, number))
}

// ExistsByNumber reports whether a policy number is already taken.
func (r *PolicyRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM policies WHERE policy_number = $1 AND deleted_at IS NULL)`,
		number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check policy existence: %w", err)
	}
	return exists, nil
}

// Update updates a policy's mutable fields.
func (r *PolicyRepository) Update(ctx context.Context, id int64, p *policy.Policy) error {
	query := `
		UPDATE policies
		SET insurer = $1, premium = $2, sum_assured = $3, start_date = $4,
		    end_date = $5, documents = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(
		ctx, query,
		p.Insurer, p.Premium, p.SumAssured, p.StartDate, p.EndDate, p.Documents, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus transitions a policy to a new status.
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id int64, status policy.Status) error {
	query := `UPDATE policies SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update policy status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete soft deletes a policy.
func (r *PolicyRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE policies SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves policies belonging to an agent's clients, with filters.
func (r *PolicyRepository) List(ctx context.Context, agentID int64, filters *policy.PolicyListFilters) ([]policy.Policy, int64, error) {
	conditions := []string{
		"p.deleted_at IS NULL",
		"p.client_id IN (SELECT id FROM clients WHERE agent_id = $1 AND deleted_at IS NULL)",
	}
	args := []interface{}{agentID}
	argPos := 2

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("p.client_id = $%d", argPos))
		args = append(args, *filters.ClientID)
		argPos++
	}

	if filters.Category != nil {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argPos))
		args = append(args, *filters.Category)
		argPos++
	}

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.ExpiringAfter != "" {
		conditions = append(conditions, fmt.Sprintf("p.end_date >= $%d", argPos))
		args = append(args, filters.ExpiringAfter)
		argPos++
	}

	if filters.ExpiringBefore != "" {
		conditions = append(conditions, fmt.Sprintf("p.end_date <= $%d", argPos))
		args = append(args, filters.ExpiringBefore)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.policy_number ILIKE $%d", argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM policies p WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count policies: %w", err)
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
	case "end_date", "premium", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	cols := strings.ReplaceAll(policyColumns, "id,", "p.id,")
	query := fmt.Sprintf(
		"SELECT %s FROM policies p WHERE %s ORDER BY p.%s %s LIMIT $%d OFFSET $%d",
		cols, whereClause, sortBy, sortOrder, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []policy.Policy
	for rows.Next() {
		var p policy.Policy
		if err := rows.Scan(
			&p.ID, &p.PolicyNumber, &p.ClientID, &p.Category, &p.Insurer, &p.Premium, &p.SumAssured,
			&p.StartDate, &p.EndDate, &p.Status, &p.Documents, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}

	return policies, total, rows.Err()
}

// Stats returns policy counts and the premium falling due next month for
// the agent's book.
func (r *PolicyRepository) Stats(ctx context.Context, agentID int64, windowStart, windowEnd string) (*policy.PolicyStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE p.status = 'Active'),
			COUNT(*) FILTER (WHERE p.end_date >= $2 AND p.end_date <= $3 AND p.status <> 'Cancelled'),
			COALESCE(SUM(p.premium) FILTER (WHERE p.end_date >= $2 AND p.end_date <= $3 AND p.status <> 'Cancelled'), 0)
		FROM policies p
		WHERE p.deleted_at IS NULL
		  AND p.client_id IN (SELECT id FROM clients WHERE agent_id = $1 AND deleted_at IS NULL)
	`

	var s policy.PolicyStats
	err := r.db.QueryRow(ctx, query, agentID, windowStart, windowEnd).Scan(
		&s.TotalPolicies, &s.ActivePolicies, &s.ExpiringNextMonth, &s.PremiumDue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy stats: %w", err)
	}

	return &s, nil
}

// findExpiringQuery is the renewal job's joined fetch: policies whose end
// date falls inside the window and whose status is not Cancelled, joined to
// their client and the client's agent in one query so grouping needs no
// further lookups. The joins are outer joins: missing client/agent linkage
// yields NULL agent fields rather than dropping the row here; the grouping
// step excludes those rows.
const findExpiringQuery = `
	SELECT p.id, p.policy_number, p.category, p.premium, p.end_date,
	       c.full_name, c.email,
	       a.id, a.agent_reference, a.phone, a.email
	FROM policies p
	LEFT JOIN clients c ON c.id = p.client_id AND c.deleted_at IS NULL
	LEFT JOIN agents a ON a.id = c.agent_id AND a.deleted_at IS NULL
	WHERE p.end_date >= $1 AND p.end_date <= $2
	  AND p.status <> 'Cancelled'
	  AND p.deleted_at IS NULL
`

// FindExpiringBetween fetches policies expiring in [windowStart, windowEnd]
// for the renewal job.
func (r *PolicyRepository) FindExpiringBetween(ctx context.Context, windowStart, windowEnd string) ([]renewal.ExpiringPolicy, error) {
	rows, err := r.db.Query(ctx, findExpiringQuery, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring policies: %w", err)
	}
	defer rows.Close()

	var policies []renewal.ExpiringPolicy
	for rows.Next() {
		var p renewal.ExpiringPolicy
		if err := rows.Scan(
			&p.PolicyID, &p.PolicyNumber, &p.Category, &p.Premium, &p.EndDate,
			&p.ClientName, &p.ClientEmail,
			&p.AgentID, &p.AgentReference, &p.AgentPhone, &p.AgentEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expiring policy: %w", err)
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}
