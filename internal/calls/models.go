package calls

import "time"

// CallSession is one attempted or completed call between two members.
//
// Invariants:
// - duration_seconds never decreases across updates for the same session.
// - cost and the two deduction flags are set together, exactly once, when
//   the status first becomes terminal. After that the session is immutable
//   for billing purposes; status/duration may still refresh for audit.
type CallSession struct {
	ID         string `json:"id" db:"id"`
	CallerID   string `json:"caller_id" db:"caller_id"`
	ReceiverID string `json:"receiver_id" db:"receiver_id"`

	// ExternalCallID is empty until the provider assigns one.
	ExternalCallID string `json:"external_call_id,omitempty" db:"external_call_id"`

	Status Status `json:"status" db:"status"`

	DurationSeconds int `json:"duration_seconds" db:"duration_seconds"`

	StartedAt *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`

	RecordingURL string `json:"recording_url,omitempty" db:"recording_url"`

	// CostMinor is the per-minute provider cost in minor currency units,
	// computed once when the session turns terminal.
	CostMinor int64 `json:"cost_minor" db:"cost_minor"`

	// Billing idempotency guards.
	CallerCreditsDeducted   bool `json:"caller_credits_deducted" db:"caller_credits_deducted"`
	ReceiverCreditsDeducted bool `json:"receiver_credits_deducted" db:"receiver_credits_deducted"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Billed reports whether the exactly-once billing cycle already ran.
func (s CallSession) Billed() bool {
	return s.CallerCreditsDeducted && s.ReceiverCreditsDeducted
}

// Involves reports whether userID is a party to the session. Sessions are
// invisible to everyone else.
func (s CallSession) Involves(userID string) bool {
	return userID != "" && (s.CallerID == userID || s.ReceiverID == userID)
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	ID              string     `json:"id"`
	Status          Status     `json:"status"`
	DurationSeconds int        `json:"duration"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	RecordingURL    string     `json:"recordingUrl,omitempty"`
	ExternalCallID  string     `json:"externalCallId,omitempty"`
	CostMinor       int64      `json:"costMinor"`
	Billed          bool       `json:"billed"`
}

func (s CallSession) Snapshot() Snapshot {
	return Snapshot{
		ID:              s.ID,
		Status:          s.Status,
		DurationSeconds: s.DurationSeconds,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		RecordingURL:    s.RecordingURL,
		ExternalCallID:  s.ExternalCallID,
		CostMinor:       s.CostMinor,
		Billed:          s.Billed(),
	}
}
