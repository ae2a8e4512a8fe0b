package payments

import "time"

// Payment is a purchase request tied to a plan, awaiting admin verification.
//
// Lifecycle: created by the purchase flow; transitioned exactly once from
// pending to verified or rejected. Verification is the sole trigger that
// mints or tops up a credit allocation.
type Payment struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	PlanID string `json:"plan_id" db:"plan_id"`

	AmountMinor int64 `json:"amount_minor" db:"amount_minor"`

	Status PaymentStatus `json:"status" db:"status"`

	AdminNotes string     `json:"admin_notes,omitempty" db:"admin_notes"`
	VerifiedBy string     `json:"verified_by,omitempty" db:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" db:"verified_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Plan is the purchasable call-credit bundle a payment references.
// Plans with zero call credits belong to other product lines and are not
// verifiable through this workflow.
type Plan struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	CallCredits int    `json:"call_credits" db:"call_credits"`
	PriceMinor  int64  `json:"price_minor" db:"price_minor"`
}
