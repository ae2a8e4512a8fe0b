package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Table: credit_allocations, with UNIQUE (user_id, plan_id) for plan-backed
// rows so verification retries top up instead of duplicating.

func findAllocationForUpdate(ctx context.Context, tx *sql.Tx, userID, planID string) (CreditAllocation, bool, error) {
	const q = `
SELECT id, user_id, plan_id, credits_purchased, credits_remaining, expires_at,
       admin_allocated, allocation_notes, created_at, updated_at
FROM credit_allocations
WHERE user_id = $1 AND plan_id = $2
FOR UPDATE
`
	var a CreditAllocation
	err := tx.QueryRowContext(ctx, q, userID, planID).Scan(
		&a.ID,
		&a.UserID,
		&a.PlanID,
		&a.CreditsPurchased,
		&a.CreditsRemaining,
		&a.ExpiresAt,
		&a.AdminAllocated,
		&a.AllocationNotes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CreditAllocation{}, false, nil
		}
		return CreditAllocation{}, false, err
	}
	return a, true, nil
}

func insertAllocation(ctx context.Context, tx *sql.Tx, a CreditAllocation) error {
	const q = `
INSERT INTO credit_allocations (
  id, user_id, plan_id, credits_purchased, credits_remaining, expires_at,
  admin_allocated, allocation_notes, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
`
	_, err := tx.ExecContext(ctx, q,
		a.ID,
		a.UserID,
		a.PlanID,
		a.CreditsPurchased,
		a.CreditsRemaining,
		a.ExpiresAt,
		a.AdminAllocated,
		a.AllocationNotes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func topUpAllocation(ctx context.Context, tx *sql.Tx, id string, credits int, expiresAt, now time.Time) (CreditAllocation, error) {
	const q = `
UPDATE credit_allocations
SET credits_purchased = credits_purchased + $2,
    credits_remaining = credits_remaining + $2,
    expires_at = $3,
    updated_at = $4
WHERE id = $1
RETURNING id, user_id, plan_id, credits_purchased, credits_remaining, expires_at,
          admin_allocated, allocation_notes, created_at, updated_at
`
	var a CreditAllocation
	err := tx.QueryRowContext(ctx, q, id, credits, expiresAt, now).Scan(
		&a.ID,
		&a.UserID,
		&a.PlanID,
		&a.CreditsPurchased,
		&a.CreditsRemaining,
		&a.ExpiresAt,
		&a.AdminAllocated,
		&a.AllocationNotes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return CreditAllocation{}, err
	}
	return a, nil
}

func listActiveAllocations(ctx context.Context, db *sql.DB, userID string, now time.Time) ([]CreditAllocation, error) {
	const q = `
SELECT id, user_id, plan_id, credits_purchased, credits_remaining, expires_at,
       admin_allocated, allocation_notes, created_at, updated_at
FROM credit_allocations
WHERE user_id = $1 AND expires_at > $2
ORDER BY expires_at ASC
`
	rows, err := db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAllocations(rows)
}

// lockActiveAllocations takes row locks on every allocation that can fund a
// deduction, ordered soonest-expiring first. Concurrent deductions for the
// same user serialize here.
func lockActiveAllocations(ctx context.Context, tx *sql.Tx, userID string, now time.Time) ([]CreditAllocation, error) {
	const q = `
SELECT id, user_id, plan_id, credits_purchased, credits_remaining, expires_at,
       admin_allocated, allocation_notes, created_at, updated_at
FROM credit_allocations
WHERE user_id = $1 AND expires_at > $2 AND credits_remaining > 0
ORDER BY expires_at ASC
FOR UPDATE
`
	rows, err := tx.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAllocations(rows)
}

func applyDraw(ctx context.Context, tx *sql.Tx, allocationID string, amount int, now time.Time) error {
	// The remaining >= amount guard backs up the planner; a zero-row update
	// means another writer got there despite the lock, which must fail loudly.
	const q = `
UPDATE credit_allocations
SET credits_remaining = credits_remaining - $2,
    updated_at = $3
WHERE id = $1 AND credits_remaining >= $2
`
	res, err := tx.ExecContext(ctx, q, allocationID, amount, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

func scanAllocations(rows *sql.Rows) ([]CreditAllocation, error) {
	var out []CreditAllocation
	for rows.Next() {
		var a CreditAllocation
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.PlanID,
			&a.CreditsPurchased,
			&a.CreditsRemaining,
			&a.ExpiresAt,
			&a.AdminAllocated,
			&a.AllocationNotes,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
