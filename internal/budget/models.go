package budget

import "time"

// Settings is the org-wide calling budget. A single row that admins tune;
// the per-minute rate here is what the reconciler prices completed calls at.
type Settings struct {
	CostPerMinuteMinor int64     `json:"cost_per_minute_minor" db:"cost_per_minute_minor"`
	TotalBudgetMinor   int64     `json:"total_budget_minor" db:"total_budget_minor"`
	MonthlyLimitMinor  int64     `json:"monthly_limit_minor" db:"monthly_limit_minor"`
	UpdatedBy          string    `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Usage is the spend summary derived from billed call sessions.
type Usage struct {
	CostPerMinuteMinor int64 `json:"cost_per_minute_minor"`
	TotalBudgetMinor   int64 `json:"total_budget_minor"`
	UsedMinor          int64 `json:"used_minor"`
	RemainingMinor     int64 `json:"remaining_minor"`

	MonthlyLimitMinor   int64 `json:"monthly_limit_minor"`
	MonthUsedMinor      int64 `json:"month_used_minor"`
	MonthRemainingMinor int64 `json:"month_remaining_minor"`

	BilledCalls int64 `json:"billed_calls"`
}

// remainingMinor floors at zero so overspend reads as an exhausted budget,
// not a negative one.
func remainingMinor(total, used int64) int64 {
	if used >= total {
		return 0
	}
	return total - used
}

// monthStart returns the first instant of now's calendar month in UTC.
func monthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
