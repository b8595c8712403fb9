// internal/service/auth/service.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"insurica-service/internal/domain/agent"
	xerrors "insurica-service/internal/pkg/errors"
	"insurica-service/internal/pkg/jwt"
	"insurica-service/internal/pkg/session"
	"insurica-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	agentRepo   *postgres.AgentRepository
	jwtManager  *jwt.Manager
	sessions    *session.Manager
	rateLimiter *session.RateLimiter
	logger      *zap.Logger
}

func NewAuthService(
	agentRepo *postgres.AgentRepository,
	jwtManager *jwt.Manager,
	sessions *session.Manager,
	rateLimiter *session.RateLimiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		agentRepo:   agentRepo,
		jwtManager:  jwtManager,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Register creates a new agent account with role "agent".
func (s *AuthService) Register(ctx context.Context, req *agent.RegisterRequest) (*agent.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.agentRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &agent.Agent{
		AgentReference: ulid.Make().String(),
		FullName:       req.FullName,
		Email:          email,
		Phone:          sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		PasswordHash:   string(hash),
		Role:           agent.RoleAgent,
		IsActive:       true,
	}

	if err := s.agentRepo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create agent", zap.Error(err))
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info("agent registered",
		zap.Int64("agent_id", a.ID),
		zap.String("agent_reference", a.AgentReference),
	)

	return a, nil
}

// Login authenticates an agent and opens a session. Login attempts are rate
// limited per (ip, email).
func (s *AuthService) Login(ctx context.Context, ip, userAgent string, req *agent.LoginRequest) (*agent.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, email)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	a, err := s.agentRepo.FindByEmail(ctx, email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}

	if !a.IsActive {
		return nil, xerrors.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(a.ID, a.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtManager.Generator.GenerateRefreshToken(a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	if err := s.sessions.CreateSession(ctx, &session.Data{
		JTI:            jti,
		AgentID:        a.ID,
		Email:          a.Email,
		Role:           a.Role,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.jwtManager.Generator.Ttl),
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("agent logged in", zap.Int64("agent_id", a.ID), zap.String("ip", ip))

	return &agent.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Agent:        a,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token and
// session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*agent.LoginResponse, error) {
	claims, err := s.jwtManager.Verifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	a, err := s.agentRepo.FindByID(ctx, claims.AgentID)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}
	if !a.IsActive {
		return nil, xerrors.ErrForbidden
	}

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(a.ID, a.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	if err := s.sessions.CreateSession(ctx, &session.Data{
		JTI:            jti,
		AgentID:        a.ID,
		Email:          a.Email,
		Role:           a.Role,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.jwtManager.Generator.Ttl),
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &agent.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Agent:        a,
	}, nil
}

// Logout closes the current session.
func (s *AuthService) Logout(ctx context.Context, agentID int64, jti string) error {
	if err := s.sessions.DeleteSession(ctx, agentID, jti); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("agent logged out", zap.Int64("agent_id", agentID))
	return nil
}

// LogoutAll closes every session for the agent.
func (s *AuthService) LogoutAll(ctx context.Context, agentID int64) error {
	if err := s.sessions.DeleteAllSessions(ctx, agentID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

// GetProfile returns the agent's own record.
func (s *AuthService) GetProfile(ctx context.Context, agentID int64) (*agent.Agent, error) {
	return s.agentRepo.FindByID(ctx, agentID)
}

// UpdateProfile updates the agent's own name and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, agentID int64, req *agent.UpdateProfileRequest) (*agent.Agent, error) {
	a, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		a.FullName = *req.FullName
	}
	if req.Phone != nil {
		a.Phone = sql.NullString{String: *req.Phone, Valid: *req.Phone != ""}
	}

	if err := s.agentRepo.UpdateProfile(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("agent profile updated", zap.Int64("agent_id", agentID))

	return s.agentRepo.FindByID(ctx, agentID)
}

// ChangePassword verifies the current password, stores the new hash, and
// invalidates all existing sessions.
func (s *AuthService) ChangePassword(ctx context.Context, agentID int64, req *agent.ChangePasswordRequest) error {
	a, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.agentRepo.UpdatePassword(ctx, agentID, string(hash)); err != nil {
		return err
	}

	if err := s.sessions.DeleteAllSessions(ctx, agentID); err != nil {
		s.logger.Warn("failed to invalidate sessions after password change", zap.Error(err))
	}

	s.logger.Info("agent password changed", zap.Int64("agent_id", agentID))
	return nil
}

// ListAgents returns all agents. Admin only, enforced by middleware.
func (s *AuthService) ListAgents(ctx context.Context) ([]agent.Agent, error) {
	return s.agentRepo.List(ctx)
}

// SetAgentActive toggles an agent account and drops its sessions when
// deactivating.
func (s *AuthService) SetAgentActive(ctx context.Context, agentID int64, active bool) error {
	if err := s.agentRepo.SetActive(ctx, agentID, active); err != nil {
		return err
	}

	if !active {
		if err := s.sessions.DeleteAllSessions(ctx, agentID); err != nil {
			s.logger.Warn("failed to drop sessions for deactivated agent", zap.Error(err))
		}
	}

	return nil
}
