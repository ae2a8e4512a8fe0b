package ledger

import "time"

// CreditAllocation is one purchased or admin-granted batch of call credits.
//
// Invariants:
// - 0 <= credits_remaining <= credits_purchased at all times.
// - credits_remaining never increases except via an explicit top-up
//   (Allocate on an existing (user, plan) pair).
// - Rows are never deleted; expiry is a query-time predicate.
type CreditAllocation struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	// PlanID is empty for manual admin grants.
	PlanID string `json:"plan_id,omitempty" db:"plan_id"`

	CreditsPurchased int `json:"credits_purchased" db:"credits_purchased"`
	CreditsRemaining int `json:"credits_remaining" db:"credits_remaining"`

	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`

	AdminAllocated  bool   `json:"admin_allocated" db:"admin_allocated"`
	AllocationNotes string `json:"allocation_notes,omitempty" db:"allocation_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the allocation can still fund calls at the given time.
func (a CreditAllocation) Active(now time.Time) bool {
	return a.CreditsRemaining > 0 && a.ExpiresAt.After(now)
}

// Balance is the user's ledger viewed as a single logical balance.
type Balance struct {
	UserID         string `json:"user_id"`
	TotalRemaining int    `json:"total_remaining"`
	TotalPurchased int    `json:"total_purchased"`
	CreditsUsed    int    `json:"credits_used"`

	// NextExpiry is the soonest expiry among active allocations; nil when no
	// allocation is active.
	NextExpiry *time.Time `json:"next_expiry,omitempty"`

	Allocations []CreditAllocation `json:"allocations"`
}

func (b Balance) CanMakeCalls() bool { return b.TotalRemaining > 0 }
