package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func lockPayment(ctx context.Context, tx *sql.Tx, id string) (Payment, bool, error) {
	const q = `
SELECT id, user_id, plan_id, amount_minor, status, admin_notes, verified_by, verified_at, created_at, updated_at
FROM payments
WHERE id = $1
FOR UPDATE
`
	p, err := scanPayment(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Payment{}, false, nil
		}
		return Payment{}, false, err
	}
	return p, true, nil
}

func updatePaymentStatus(ctx context.Context, tx *sql.Tx, id string, status PaymentStatus, adminID, notes string, now time.Time) (Payment, error) {
	const q = `
UPDATE payments
SET status = $2,
    admin_notes = $3,
    verified_by = $4,
    verified_at = $5,
    updated_at = $5
WHERE id = $1
RETURNING id, user_id, plan_id, amount_minor, status, admin_notes, verified_by, verified_at, created_at, updated_at
`
	return scanPayment(tx.QueryRowContext(ctx, q, id, status, notes, adminID, now))
}

func getPlan(ctx context.Context, tx *sql.Tx, id string) (Plan, bool, error) {
	const q = `
SELECT id, name, call_credits, price_minor
FROM plans
WHERE id = $1
`
	var p Plan
	err := tx.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.CallCredits, &p.PriceMinor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Plan{}, false, nil
		}
		return Plan{}, false, err
	}
	return p, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (Payment, error) {
	var p Payment
	var adminNotes, verifiedBy sql.NullString
	var verifiedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.PlanID,
		&p.AmountMinor,
		&p.Status,
		&adminNotes,
		&verifiedBy,
		&verifiedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Payment{}, err
	}

	p.AdminNotes = adminNotes.String
	p.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		p.VerifiedAt = &t
	}
	return p, nil
}
