package budget

import (
	"context"
	"database/sql"
	"time"
)

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSettings(ctx context.Context, q queryer) (Settings, error) {
	const query = `
SELECT cost_per_minute_minor, total_budget_minor, monthly_limit_minor, updated_by, updated_at
FROM budget_settings
WHERE id = 1
`
	var set Settings
	var updatedBy sql.NullString
	err := q.QueryRowContext(ctx, query).Scan(
		&set.CostPerMinuteMinor,
		&set.TotalBudgetMinor,
		&set.MonthlyLimitMinor,
		&updatedBy,
		&set.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}
	set.UpdatedBy = updatedBy.String
	return set, nil
}

func updateSettings(ctx context.Context, tx *sql.Tx, req UpdateRequest, now time.Time) (Settings, error) {
	const query = `
UPDATE budget_settings
SET cost_per_minute_minor = $1,
    total_budget_minor = $2,
    monthly_limit_minor = $3,
    updated_by = $4,
    updated_at = $5
WHERE id = 1
RETURNING cost_per_minute_minor, total_budget_minor, monthly_limit_minor, updated_by, updated_at
`
	var set Settings
	var updatedBy sql.NullString
	err := tx.QueryRowContext(ctx, query,
		req.CostPerMinuteMinor,
		req.TotalBudgetMinor,
		req.MonthlyLimitMinor,
		req.ActorID,
		now,
	).Scan(
		&set.CostPerMinuteMinor,
		&set.TotalBudgetMinor,
		&set.MonthlyLimitMinor,
		&updatedBy,
		&set.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}
	set.UpdatedBy = updatedBy.String
	return set, nil
}

// usageTotals sums stored session costs rather than re-pricing durations,
// so historic calls keep the rate they were billed at.
func usageTotals(ctx context.Context, db *sql.DB, monthFrom time.Time) (used, monthUsed, billed int64, err error) {
	const query = `
SELECT
    COALESCE(SUM(cost_minor), 0),
    COALESCE(SUM(cost_minor) FILTER (WHERE ended_at >= $1), 0),
    COUNT(*)
FROM call_sessions
WHERE caller_credits_deducted AND receiver_credits_deducted
`
	err = db.QueryRowContext(ctx, query, monthFrom).Scan(&used, &monthUsed, &billed)
	if err != nil {
		return 0, 0, 0, err
	}
	return used, monthUsed, billed, nil
}
