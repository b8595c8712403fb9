// internal/repository/postgres/client_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"insurica-service/internal/domain/client"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, agent_id, client_reference, full_name, phone_number, alt_phone, email,
	       date_of_birth, address, is_active, notes, tags, created_at, updated_at, deleted_at`

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID, &c.AgentID, &c.ClientReference, &c.FullName, &c.PhoneNumber, &c.AltPhone, &c.Email,
		&c.DateOfBirth, &c.Address, &c.IsActive, &c.Notes, &c.Tags,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	return &c, nil
}

// Create inserts a new client for an agent.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			agent_id, client_reference, full_name, phone_number, alt_phone, email,
			date_of_birth, address, notes, tags, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.AgentID, c.ClientReference, c.FullName, c.PhoneNumber, c.AltPhone, c.Email,
		c.DateOfBirth, c.Address, c.Notes, c.Tags, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// CreateTx inserts a new client inside the caller's transaction. Used by
// lead conversion so the client insert and the lead's converted marker
// commit together.
func (r *ClientRepository) CreateTx(ctx context.Context, tx pgx.Tx, c *client.Client) error {
	query := `
		INSERT INTO clients (
			agent_id, client_reference, full_name, phone_number, alt_phone, email,
			date_of_birth, address, notes, tags, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		c.AgentID, c.ClientReference, c.FullName, c.PhoneNumber, c.AltPhone, c.Email,
		c.DateOfBirth, c.Address, c.Notes, c.Tags, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// FindByID retrieves a client by ID.
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1 AND deleted_at IS NULL`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, id))
}

// FindByReference retrieves a client by external reference.
func (r *ClientRepository) FindByReference(ctx context.Context, reference string) (*client.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE client_reference = $1 AND deleted_at IS NULL`, clientColumns)
	return scanClient(r.db.QueryRow(ctx, query, reference))
}

// ExistsByAgentAndPhone reports whether the agent already has a client with
// this phone number.
func (r *ClientRepository) ExistsByAgentAndPhone(ctx context.Context, agentID int64, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE agent_id = $1 AND phone_number = $2 AND deleted_at IS NULL)`,
		agentID, phone,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check client existence: %w", err)
	}
	return exists, nil
}

// Update updates a client's mutable fields.
func (r *ClientRepository) Update(ctx context.Context, id int64, c *client.Client) error {
	query := `
		UPDATE clients
		SET full_name = $1, phone_number = $2, alt_phone = $3, email = $4, date_of_birth = $5,
		    address = $6, notes = $7, tags = $8, updated_at = $9
		WHERE id = $10 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(
		ctx, query,
		c.FullName, c.PhoneNumber, c.AltPhone, c.Email, c.DateOfBirth,
		c.Address, c.Notes, c.Tags, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus toggles a client active/inactive.
func (r *ClientRepository) UpdateStatus(ctx context.Context, id int64, isActive bool) error {
	query := `UPDATE clients SET is_active = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, isActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update client status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SoftDelete soft deletes a client.
func (r *ClientRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE clients SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves an agent's clients with filters and pagination.
func (r *ClientRepository) List(ctx context.Context, agentID int64, filters *client.ClientListFilters) ([]client.Client, int64, error) {
	conditions := []string{"agent_id = $1", "deleted_at IS NULL"}
	args := []interface{}{agentID}
	argPos := 2

	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filters.IsActive)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR phone_number ILIKE $%d OR email ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	if len(filters.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", argPos))
		args = append(args, pq.Array(filters.Tags))
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clients WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
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
	case "full_name", "phone_number", "created_at":
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM clients WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		clientColumns, whereClause, sortBy, sortOrder, argPos, argPos+1,
	)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		var c client.Client
		if err := rows.Scan(
			&c.ID, &c.AgentID, &c.ClientReference, &c.FullName, &c.PhoneNumber, &c.AltPhone, &c.Email,
			&c.DateOfBirth, &c.Address, &c.IsActive, &c.Notes, &c.Tags,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	return clients, total, rows.Err()
}

// Stats returns counts for the agent's client book.
func (r *ClientRepository) Stats(ctx context.Context, agentID int64) (*client.ClientStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', now()))
		FROM clients
		WHERE agent_id = $1 AND deleted_at IS NULL
	`

	var s client.ClientStats
	err := r.db.QueryRow(ctx, query, agentID).Scan(&s.TotalClients, &s.ActiveClients, &s.NewThisMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load client stats: %w", err)
	}

	return &s, nil
}
