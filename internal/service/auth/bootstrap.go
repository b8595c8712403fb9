// internal/service/auth/bootstrap.go
package auth

import (
	"context"
	"database/sql"
	"fmt"

	"insurica-service/internal/domain/agent"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureSuperAdminExists creates the bootstrap super admin account when it
// does not exist yet. A no-op when email/password are unset or the account
// is already present.
func (s *AuthService) EnsureSuperAdminExists(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.logger.Info("super admin bootstrap skipped, credentials not configured")
		return nil
	}

	_, err := s.agentRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to look up super admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	a := &agent.Agent{
		AgentReference: ulid.Make().String(),
		FullName:       "Super Admin",
		Email:          email,
		Phone:          sql.NullString{},
		PasswordHash:   string(hash),
		Role:           agent.RoleSuperAdmin,
		IsActive:       true,
	}

	if err := s.agentRepo.Create(ctx, a); err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	s.logger.Info("super admin created", zap.Int64("agent_id", a.ID), zap.String("email", email))
	return nil
}
