// internal/service/renewal/service.go
package renewal

import (
	"context"
	"fmt"
	"time"

	"insurica-service/internal/domain/renewal"
	xerrors "insurica-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// PolicySource fetches expiring policies joined with client and agent
// contact details.
type PolicySource interface {
	FindExpiringBetween(ctx context.Context, windowStart, windowEnd string) ([]renewal.ExpiringPolicy, error)
}

// DocumentSender delivers one report to one phone number.
type DocumentSender interface {
	SendDocument(ctx context.Context, phone, filename string, data []byte, caption string) error
}

// EmailCopier sends a best-effort email copy of the report. May be nil.
type EmailCopier interface {
	IsConfigured() bool
	SendWithAttachment(to, subject, bodyHTML, filename string, attachment []byte) error
}

// RunGuard prevents overlapping renewal runs.
type RunGuard interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type Service struct {
	policies PolicySource
	sender   DocumentSender
	email    EmailCopier
	guard    RunGuard
	attempts int
	logger   *zap.Logger

	// now is injectable for deterministic window and days-remaining tests.
	now func() time.Time
}

func NewService(policies PolicySource, sender DocumentSender, email EmailCopier, guard RunGuard, attempts int, logger *zap.Logger) *Service {
	if attempts < 1 {
		attempts = 1
	}
	return &Service{
		policies: policies,
		sender:   sender,
		email:    email,
		guard:    guard,
		attempts: attempts,
		logger:   logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock. Test hook.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

// IsScheduledDay reports whether the clock currently falls on an allowed run
// day.
func (s *Service) IsScheduledDay() bool {
	return renewal.IsScheduledRunDay(s.now())
}

// Run executes the full renewal pipeline: compute next month's window, fetch
// expiring policies, group them by agent, build one spreadsheet per agent and
// deliver it. A fetch error aborts the whole run; a single agent's report or
// delivery failure is recorded in that agent's outcome and the loop
// continues.
func (s *Service) Run(ctx context.Context) (*renewal.RunResult, error) {
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire run lock: %w", err)
		}
		if !ok {
			return nil, xerrors.ErrRunInProgress
		}
		defer func() {
			if err := s.guard.Release(ctx); err != nil {
				s.logger.Warn("failed to release renewal run lock", zap.Error(err))
			}
		}()
	}

	now := s.now()
	window := renewal.NextMonthWindow(now)

	s.logger.Info("renewal run started",
		zap.String("window_start", window.StartDate()),
		zap.String("window_end", window.EndDate()),
	)

	policies, err := s.policies.FindExpiringBetween(ctx, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, err
	}

	if len(policies) == 0 {
		s.logger.Info("renewal run finished", zap.String("result", "no renewals"))
		return &renewal.RunResult{Message: renewal.MsgNoRenewals}, nil
	}

	groups := renewal.GroupByAgent(policies)

	results := make([]renewal.DeliveryOutcome, 0, len(groups))
	for _, group := range groups {
		results = append(results, s.processAgent(ctx, group, window, now))
	}

	s.logger.Info("renewal run finished",
		zap.Int("policies", len(policies)),
		zap.Int("agents", len(groups)),
	)

	return &renewal.RunResult{
		Message: fmt.Sprintf("Renewal reports processed for %d agents.", len(groups)),
		Results: results,
	}, nil
}

// processAgent builds and delivers one agent's report. Never returns an
// error: all failures are folded into the outcome.
func (s *Service) processAgent(ctx context.Context, group renewal.AgentGroup, window renewal.Window, now time.Time) renewal.DeliveryOutcome {
	outcome := renewal.DeliveryOutcome{AgentID: group.AgentReference}

	if !group.AgentPhone.Valid || group.AgentPhone.String == "" {
		outcome.Status = renewal.OutcomeSkipped
		outcome.Error = renewal.ReasonNoPhone
		s.logger.Info("renewal delivery skipped",
			zap.String("agent", group.AgentReference),
			zap.String("reason", renewal.ReasonNoPhone),
		)
		return outcome
	}

	report, err := BuildReport(group, window, now)
	if err != nil {
		outcome.Status = renewal.OutcomeFailed
		outcome.Error = err.Error()
		s.logger.Error("renewal report build failed",
			zap.String("agent", group.AgentReference),
			zap.Error(err),
		)
		return outcome
	}

	if err := s.deliver(ctx, group.AgentPhone.String, report); err != nil {
		outcome.Status = renewal.OutcomeFailed
		outcome.Error = err.Error()
		s.logger.Error("renewal delivery failed",
			zap.String("agent", group.AgentReference),
			zap.Error(err),
		)
		return outcome
	}

	outcome.Status = renewal.OutcomeSent
	s.logger.Info("renewal report sent",
		zap.String("agent", group.AgentReference),
		zap.Int("policies", len(group.Policies)),
	)

	// Email copy is best-effort; its failure never changes the outcome.
	s.sendEmailCopy(group, window, report)

	return outcome
}

func (s *Service) deliver(ctx context.Context, phone string, report *Report) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.sender.SendDocument(ctx, phone, report.Filename, report.Data, report.Caption)
		if lastErr == nil {
			return nil
		}
		if attempt < s.attempts {
			s.logger.Warn("renewal delivery attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
		}
	}
	return lastErr
}

func (s *Service) sendEmailCopy(group renewal.AgentGroup, window renewal.Window, report *Report) {
	if s.email == nil || !s.email.IsConfigured() {
		return
	}
	if !group.AgentEmail.Valid || group.AgentEmail.String == "" {
		return
	}

	monthFull := window.Start.Format("January 2006")
	subject := fmt.Sprintf("Renewal report for %s", monthFull)
	body := emailCopyBody(monthFull, len(group.Policies))

	if err := s.email.SendWithAttachment(group.AgentEmail.String, subject, body, report.Filename, report.Data); err != nil {
		s.logger.Warn("renewal email copy failed",
			zap.String("agent", group.AgentReference),
			zap.Error(err),
		)
	}
}

func emailCopyBody(monthFull string, policyCount int) string {
	plural := "policies"
	if policyCount == 1 {
		plural = "policy"
	}
	return fmt.Sprintf(
		"<p>Hello,</p><p>Your renewal report for <b>%s</b> is attached. %d %s due for renewal.</p>",
		monthFull, policyCount, plural,
	)
}
