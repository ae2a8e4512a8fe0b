package audit

import "time"

// Entry is an immutable, append-only audit record for ledger-affecting
// actions.
//
// Invariants:
// - Entries are never updated or deleted.
// - Every allocation, deduction, failed deduction, payment verification and
//   settings change writes exactly one entry, inside the same transaction as
//   the mutation it describes.
//
// Storage (Postgres): table audit_log with an INSERT-only policy.
type Entry struct {
	ID string `json:"id" db:"id"`

	// Action indicates the business category of the record.
	Action Action `json:"action" db:"action"`

	// ActorID is the authenticated user or admin causing the action.
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	// UserID is the member whose balance the action affects (may equal ActorID).
	UserID string `json:"user_id,omitempty" db:"user_id"`

	// Target identifiers (optional, depending on the action).
	AllocationID string `json:"allocation_id,omitempty" db:"allocation_id"`
	SessionID    string `json:"session_id,omitempty" db:"session_id"`
	PaymentID    string `json:"payment_id,omitempty" db:"payment_id"`

	// Amount is the credit delta the action carries, if any.
	Amount int `json:"amount,omitempty" db:"amount"`

	// Reason is a short human-readable description for internal ops.
	Reason string `json:"reason,omitempty" db:"reason"`

	// Metadata is optional JSON for full details (provider response, etc.).
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Action string

const (
	ActionAllocated       Action = "allocated"
	ActionDeducted        Action = "deducted"
	ActionDeductionFailed Action = "deduction_failed"
	ActionPaymentVerified Action = "payment_verified"
	ActionPaymentRejected Action = "payment_rejected"
	ActionSettingsChanged Action = "settings_changed"
)
