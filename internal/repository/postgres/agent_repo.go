// internal/repository/postgres/agent_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insurica-service/internal/domain/agent"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgentRepository struct {
	db *pgxpool.Pool
}

func NewAgentRepository(db *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, agent_reference, full_name, email, phone, password_hash, role, is_active,
	       created_at, updated_at, deleted_at`

func scanAgent(row pgx.Row) (*agent.Agent, error) {
	var a agent.Agent
	err := row.Scan(
		&a.ID, &a.AgentReference, &a.FullName, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}
	return &a, nil
}

// Create inserts a new agent account.
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (agent_reference, full_name, email, phone, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		a.AgentReference, a.FullName, a.Email, a.Phone, a.PasswordHash, a.Role, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}

// FindByID retrieves an agent by ID.
func (r *AgentRepository) FindByID(ctx context.Context, id int64) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1 AND deleted_at IS NULL`, agentColumns)
	return scanAgent(r.db.QueryRow(ctx, query, id))
}

// FindByEmail retrieves an agent by email.
func (r *AgentRepository) FindByEmail(ctx context.Context, email string) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE email = $1 AND deleted_at IS NULL`, agentColumns)
	return scanAgent(r.db.QueryRow(ctx, query, email))
}

// FindByReference retrieves an agent by external reference.
func (r *AgentRepository) FindByReference(ctx context.Context, reference string) (*agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE agent_reference = $1 AND deleted_at IS NULL`, agentColumns)
	return scanAgent(r.db.QueryRow(ctx, query, reference))
}

// ExistsByEmail reports whether an agent with the email already exists.
func (r *AgentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM agents WHERE email = $1 AND deleted_at IS NULL)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check agent existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the mutable profile fields.
func (r *AgentRepository) UpdateProfile(ctx context.Context, a *agent.Agent) error {
	query := `
		UPDATE agents
		SET full_name = $1, phone = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, a.FullName, a.Phone, time.Now(), a.ID)
	if err != nil {
		return fmt.Errorf("failed to update agent profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the agent's password hash.
func (r *AgentRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE agents SET password_hash = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive toggles the agent account.
func (r *AgentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE agents SET is_active = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update agent status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List retrieves all agents (admin view).
func (r *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE deleted_at IS NULL ORDER BY created_at DESC`, agentColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []agent.Agent
	for rows.Next() {
		var a agent.Agent
		if err := rows.Scan(
			&a.ID, &a.AgentReference, &a.FullName, &a.Email, &a.Phone, &a.PasswordHash,
			&a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}

	return agents, rows.Err()
}
