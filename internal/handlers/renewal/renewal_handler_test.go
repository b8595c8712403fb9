// internal/handlers/renewal/renewal_handler_test.go
package renewal

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"insurica-service/internal/domain/renewal"
	service "insurica-service/internal/service/renewal"
	ws "insurica-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPolicySource struct {
	policies []renewal.ExpiringPolicy
	err      error
}

func (s *stubPolicySource) FindExpiringBetween(context.Context, string, string) ([]renewal.ExpiringPolicy, error) {
	return s.policies, s.err
}

type stubSender struct {
	sent int
}

func (s *stubSender) SendDocument(context.Context, string, string, []byte, string) error {
	s.sent++
	return nil
}

type stubGuard struct{ held bool }

func (s *stubGuard) Acquire(context.Context) (bool, error) { return !s.held, nil }
func (s *stubGuard) Release(context.Context) error         { return nil }

type stubBroadcaster struct {
	events []*ws.Event
}

func (s *stubBroadcaster) PushToAll(event *ws.Event) {
	s.events = append(s.events, event)
}

// offDay is a clock pinned to a day outside the run schedule.
func offDay() time.Time { return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC) }

// runDay is a clock pinned to the 15th.
func runDay() time.Time { return time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC) }

func newTestHandler(source *stubPolicySource, sender *stubSender, guard service.RunGuard, secret string, clock func() time.Time) *RenewalHandler {
	svc := service.NewService(source, sender, nil, guard, 1, zap.NewNop())
	svc.SetNow(clock)
	return NewRenewalHandler(svc, nil, secret, zap.NewNop())
}

func performRun(h *RenewalHandler, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/jobs/renewals", h.Run)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/renewals", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunRequiresBearerSecret(t *testing.T) {
	h := newTestHandler(&stubPolicySource{}, &stubSender{}, nil, "cron-secret", runDay)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong secret", map[string]string{"Authorization": "Bearer wrong"}},
		{"not bearer", map[string]string{"Authorization": "Basic cron-secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRun(h, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body["error"])
		})
	}
}

func TestRunRefusesWhenSecretUnset(t *testing.T) {
	h := newTestHandler(&stubPolicySource{}, &stubSender{}, nil, "", runDay)

	w := performRun(h, map[string]string{"Authorization": "Bearer anything"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRunSchedulerSkippedOffDay(t *testing.T) {
	sender := &stubSender{}
	h := newTestHandler(&stubPolicySource{policies: []renewal.ExpiringPolicy{{
		PolicyNumber: "POL-1",
		AgentID:      sql.NullInt64{Int64: 1, Valid: true},
		AgentPhone:   sql.NullString{String: "111", Valid: true},
	}}}, sender, nil, "cron-secret", offDay)

	w := performRun(h, map[string]string{
		"Authorization": "Bearer cron-secret",
		"x-vercel-cron": "true",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result renewal.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, renewal.MsgNotScheduled, result.Message)
	assert.Empty(t, result.Results)
	assert.Zero(t, sender.sent)
}

func TestRunManualInvocationIgnoresDayGate(t *testing.T) {
	sender := &stubSender{}
	h := newTestHandler(&stubPolicySource{policies: []renewal.ExpiringPolicy{{
		PolicyNumber:   "POL-1",
		EndDate:        time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		AgentID:        sql.NullInt64{Int64: 1, Valid: true},
		AgentReference: sql.NullString{String: "agent-ref", Valid: true},
		AgentPhone:     sql.NullString{String: "111", Valid: true},
	}}}, sender, nil, "cron-secret", offDay)

	// No scheduler marker: runs even on an off day.
	w := performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var result renewal.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Renewal reports processed for 1 agents.", result.Message)
	assert.Equal(t, 1, sender.sent)
}

func TestRunTestModeBypassesDayGate(t *testing.T) {
	sender := &stubSender{}
	h := newTestHandler(&stubPolicySource{policies: []renewal.ExpiringPolicy{{
		PolicyNumber:   "POL-1",
		EndDate:        time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		AgentID:        sql.NullInt64{Int64: 1, Valid: true},
		AgentReference: sql.NullString{String: "agent-ref", Valid: true},
		AgentPhone:     sql.NullString{String: "111", Valid: true},
	}}}, sender, nil, "cron-secret", offDay)

	w := performRun(h, map[string]string{
		"Authorization": "Bearer cron-secret",
		"x-vercel-cron": "true",
		"x-test-mode":   "true",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result renewal.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Renewal reports processed for 1 agents.", result.Message)
	require.Len(t, result.Results, 1)
	assert.Equal(t, renewal.OutcomeSent, result.Results[0].Status)
	assert.Equal(t, 1, sender.sent)
}

func TestRunNoRenewalsOnScheduledDay(t *testing.T) {
	h := newTestHandler(&stubPolicySource{}, &stubSender{}, nil, "cron-secret", runDay)

	w := performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var result renewal.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, renewal.MsgNoRenewals, result.Message)
}

func TestRunConflictWhileInProgress(t *testing.T) {
	h := newTestHandler(&stubPolicySource{}, &stubSender{}, &stubGuard{held: true}, "cron-secret", runDay)

	w := performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusConflict, w.Code)

	var result renewal.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, renewal.MsgInProgress, result.Message)
}

func TestRunPushesRunEvent(t *testing.T) {
	svc := service.NewService(&stubPolicySource{policies: []renewal.ExpiringPolicy{{
		PolicyNumber:   "POL-1",
		EndDate:        time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		AgentID:        sql.NullInt64{Int64: 1, Valid: true},
		AgentReference: sql.NullString{String: "agent-ref", Valid: true},
		AgentPhone:     sql.NullString{String: "111", Valid: true},
	}}}, &stubSender{}, nil, nil, 1, zap.NewNop())
	svc.SetNow(runDay)

	broadcaster := &stubBroadcaster{}
	h := NewRenewalHandler(svc, broadcaster, "cron-secret", zap.NewNop())

	w := performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, ws.EventRenewalRun, broadcaster.events[0].Type)

	result, ok := broadcaster.events[0].Data.(*renewal.RunResult)
	require.True(t, ok)
	assert.Equal(t, "Renewal reports processed for 1 agents.", result.Message)
}

func TestRunNoPushWithoutRun(t *testing.T) {
	broadcaster := &stubBroadcaster{}

	// Unauthorized: no run, no event.
	svc := service.NewService(&stubPolicySource{}, &stubSender{}, nil, nil, 1, zap.NewNop())
	svc.SetNow(runDay)
	h := NewRenewalHandler(svc, broadcaster, "cron-secret", zap.NewNop())
	w := performRun(h, map[string]string{"Authorization": "Bearer wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, broadcaster.events)

	// Scheduler skip on an off day: no run, no event.
	svc = service.NewService(&stubPolicySource{}, &stubSender{}, nil, nil, 1, zap.NewNop())
	svc.SetNow(offDay)
	h = NewRenewalHandler(svc, broadcaster, "cron-secret", zap.NewNop())
	w = performRun(h, map[string]string{
		"Authorization": "Bearer cron-secret",
		"x-vercel-cron": "true",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, broadcaster.events)

	// Lock held: run refused, no event.
	svc = service.NewService(&stubPolicySource{}, &stubSender{}, nil, &stubGuard{held: true}, 1, zap.NewNop())
	svc.SetNow(runDay)
	h = NewRenewalHandler(svc, broadcaster, "cron-secret", zap.NewNop())
	w = performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, broadcaster.events)
}

func TestRunFetchFailure(t *testing.T) {
	h := newTestHandler(&stubPolicySource{err: assert.AnError}, &stubSender{}, nil, "cron-secret", runDay)

	w := performRun(h, map[string]string{"Authorization": "Bearer cron-secret"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}
