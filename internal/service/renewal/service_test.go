// internal/service/renewal/service_test.go
package renewal

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"insurica-service/internal/domain/renewal"
	xerrors "insurica-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePolicySource struct {
	policies []renewal.ExpiringPolicy
	err      error

	gotStart string
	gotEnd   string
}

func (f *fakePolicySource) FindExpiringBetween(_ context.Context, start, end string) ([]renewal.ExpiringPolicy, error) {
	f.gotStart, f.gotEnd = start, end
	return f.policies, f.err
}

type sentDocument struct {
	phone    string
	filename string
	caption  string
}

type fakeSender struct {
	sent    []sentDocument
	failFor map[string]error // keyed by phone
}

func (f *fakeSender) SendDocument(_ context.Context, phone, filename string, _ []byte, caption string) error {
	if err, ok := f.failFor[phone]; ok {
		return err
	}
	f.sent = append(f.sent, sentDocument{phone: phone, filename: filename, caption: caption})
	return nil
}

type fakeGuard struct {
	held       bool
	acquireErr error
	released   int
}

func (f *fakeGuard) Acquire(context.Context) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	return !f.held, nil
}

func (f *fakeGuard) Release(context.Context) error {
	f.released++
	return nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
}

func agentPolicy(policyNumber string, agentID int64, ref, phone string) renewal.ExpiringPolicy {
	return renewal.ExpiringPolicy{
		PolicyNumber:   policyNumber,
		Category:       "General",
		Premium:        1200,
		EndDate:        time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC),
		AgentID:        sql.NullInt64{Int64: agentID, Valid: true},
		AgentReference: sql.NullString{String: ref, Valid: true},
		AgentPhone:     sql.NullString{String: phone, Valid: phone != ""},
	}
}

func newTestService(source *fakePolicySource, sender *fakeSender, guard RunGuard) *Service {
	svc := NewService(source, sender, nil, guard, 1, zap.NewNop())
	svc.SetNow(fixedClock())
	return svc
}

func TestRunDeliversPerAgent(t *testing.T) {
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{
		agentPolicy("POL-1", 1, "agent-one-ref", "+254700111222"),
		agentPolicy("POL-2", 2, "agent-two-ref", ""),
		agentPolicy("POL-3", 1, "agent-one-ref", "+254700111222"),
	}}
	sender := &fakeSender{}

	result, err := newTestService(source, sender, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-04-01", source.gotStart)
	assert.Equal(t, "2025-04-30", source.gotEnd)

	assert.Equal(t, "Renewal reports processed for 2 agents.", result.Message)
	require.Len(t, result.Results, 2)

	assert.Equal(t, "agent-one-ref", result.Results[0].AgentID)
	assert.Equal(t, renewal.OutcomeSent, result.Results[0].Status)

	assert.Equal(t, "agent-two-ref", result.Results[1].AgentID)
	assert.Equal(t, renewal.OutcomeSkipped, result.Results[1].Status)
	assert.Equal(t, renewal.ReasonNoPhone, result.Results[1].Error)

	// Only the agent with a phone number reached the sender.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+254700111222", sender.sent[0].phone)
	assert.Equal(t, "Renewals_Next_Month_Apr_2025_agent-on.xlsx", sender.sent[0].filename)
	assert.Contains(t, sender.sent[0].caption, "April 2025")
}

func TestRunNoRenewals(t *testing.T) {
	source := &fakePolicySource{}
	sender := &fakeSender{}

	result, err := newTestService(source, sender, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, renewal.MsgNoRenewals, result.Message)
	assert.Empty(t, result.Results)
	assert.Empty(t, sender.sent)
}

func TestRunFetchErrorAborts(t *testing.T) {
	source := &fakePolicySource{err: errors.New("connection refused")}
	sender := &fakeSender{}

	result, err := newTestService(source, sender, nil).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, sender.sent)
}

func TestRunDeliveryFailureIsolatedPerAgent(t *testing.T) {
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{
		agentPolicy("POL-1", 1, "agent-one-ref", "+111"),
		agentPolicy("POL-2", 2, "agent-two-ref", "+222"),
	}}
	sender := &fakeSender{failFor: map[string]error{
		"+111": errors.New("provider unavailable"),
	}}

	result, err := newTestService(source, sender, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.Equal(t, renewal.OutcomeFailed, result.Results[0].Status)
	assert.Equal(t, "provider unavailable", result.Results[0].Error)

	// The second agent still gets its report.
	assert.Equal(t, renewal.OutcomeSent, result.Results[1].Status)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+222", sender.sent[0].phone)
}

func TestRunGuardHeld(t *testing.T) {
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{
		agentPolicy("POL-1", 1, "agent-one-ref", "+111"),
	}}
	sender := &fakeSender{}
	guard := &fakeGuard{held: true}

	result, err := newTestService(source, sender, guard).Run(context.Background())
	require.ErrorIs(t, err, xerrors.ErrRunInProgress)
	assert.Nil(t, result)
	assert.Empty(t, sender.sent)
	assert.Zero(t, guard.released)
}

func TestRunGuardReleasedAfterRun(t *testing.T) {
	source := &fakePolicySource{}
	guard := &fakeGuard{}

	_, err := newTestService(source, &fakeSender{}, guard).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, guard.released)
}

func TestRunGuardAcquireError(t *testing.T) {
	guard := &fakeGuard{acquireErr: errors.New("redis down")}

	_, err := newTestService(&fakePolicySource{}, &fakeSender{}, guard).Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, xerrors.ErrRunInProgress)
}

func TestIsScheduledDayUsesClock(t *testing.T) {
	svc := newTestService(&fakePolicySource{}, &fakeSender{}, nil)

	svc.SetNow(func() time.Time { return time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC) })
	assert.True(t, svc.IsScheduledDay())

	svc.SetNow(func() time.Time { return time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC) })
	assert.False(t, svc.IsScheduledDay())
}

type fakeEmail struct {
	configured bool
	err        error
	sentTo     []string
}

func (f *fakeEmail) IsConfigured() bool { return f.configured }

func (f *fakeEmail) SendWithAttachment(to, _, _, _ string, _ []byte) error {
	f.sentTo = append(f.sentTo, to)
	return f.err
}

func TestRunEmailCopyIsBestEffort(t *testing.T) {
	p := agentPolicy("POL-1", 1, "agent-one-ref", "+111")
	p.AgentEmail = sql.NullString{String: "agent@example.com", Valid: true}
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{p}}

	email := &fakeEmail{configured: true, err: errors.New("smtp timeout")}
	svc := NewService(source, &fakeSender{}, email, nil, 1, zap.NewNop())
	svc.SetNow(fixedClock())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The copy was attempted and failed; the outcome stays sent.
	assert.Equal(t, []string{"agent@example.com"}, email.sentTo)
	assert.Equal(t, renewal.OutcomeSent, result.Results[0].Status)
}

func TestRunEmailCopySkippedWhenUnconfigured(t *testing.T) {
	p := agentPolicy("POL-1", 1, "agent-one-ref", "+111")
	p.AgentEmail = sql.NullString{String: "agent@example.com", Valid: true}
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{p}}

	email := &fakeEmail{configured: false}
	svc := NewService(source, &fakeSender{}, email, nil, 1, zap.NewNop())
	svc.SetNow(fixedClock())

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, email.sentTo)
}

type countingSender struct {
	calls int
	fail  int // fail the first n calls
}

func (c *countingSender) SendDocument(context.Context, string, string, []byte, string) error {
	c.calls++
	if c.calls <= c.fail {
		return errors.New("transient failure")
	}
	return nil
}

func TestDeliverRetries(t *testing.T) {
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{
		agentPolicy("POL-1", 1, "agent-one-ref", "+111"),
	}}
	sender := &countingSender{fail: 1}

	svc := NewService(source, sender, nil, nil, 2, zap.NewNop())
	svc.SetNow(fixedClock())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sender.calls)
	assert.Equal(t, renewal.OutcomeSent, result.Results[0].Status)
}

func TestDeliverStopsAtAttemptLimit(t *testing.T) {
	source := &fakePolicySource{policies: []renewal.ExpiringPolicy{
		agentPolicy("POL-1", 1, "agent-one-ref", "+111"),
	}}
	sender := &countingSender{fail: 10}

	svc := NewService(source, sender, nil, nil, 3, zap.NewNop())
	svc.SetNow(fixedClock())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sender.calls)
	assert.Equal(t, renewal.OutcomeFailed, result.Results[0].Status)
}
