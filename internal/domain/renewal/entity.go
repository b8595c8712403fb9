// internal/domain/renewal/entity.go
package renewal

import (
	"database/sql"
	"time"
)

// ExpiringPolicy is one row of the joined renewal query: a policy expiring
// inside the renewal window together with its client and owning agent
// contact details. Client and agent fields are nullable because the fetch is
// an outer join; rows with missing linkage are dropped during grouping, not
// treated as errors.
type ExpiringPolicy struct {
	PolicyID     int64
	PolicyNumber string
	Category     string
	Premium      float64
	EndDate      time.Time

	ClientName  sql.NullString
	ClientEmail sql.NullString

	AgentID        sql.NullInt64
	AgentReference sql.NullString
	AgentPhone     sql.NullString
	AgentEmail     sql.NullString
}

// AgentGroup is the per-agent partition of the fetched policies, in
// first-seen order.
type AgentGroup struct {
	AgentID        int64
	AgentReference string
	AgentPhone     sql.NullString
	AgentEmail     sql.NullString
	Policies       []ExpiringPolicy
}

// Delivery outcome statuses.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// ReasonNoPhone is recorded when an agent has no phone number on file. This
// is an expected state, not an error path.
const ReasonNoPhone = "No phone number in profile"

// DeliveryOutcome records the result of one agent's report delivery.
type DeliveryOutcome struct {
	AgentID string `json:"agentId"` // external agent reference
	Status  string `json:"status"`  // sent | failed | skipped
	Error   string `json:"error,omitempty"`
}

// RunResult is the renewal job's response payload.
type RunResult struct {
	Message string            `json:"message"`
	Results []DeliveryOutcome `json:"results,omitempty"`
}

// Fixed top-level messages returned by the job.
const (
	MsgNoRenewals   = "No renewals found for next month."
	MsgNotScheduled = "Not a scheduled day. Skipping."
	MsgInProgress   = "Renewal run already in progress."
)
