package budget

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestUpdateSettings_RejectsNonPositiveValues(t *testing.T) {
	svc := NewService((*sql.DB)(nil))

	cases := []UpdateRequest{
		{CostPerMinuteMinor: 0, TotalBudgetMinor: 100, MonthlyLimitMinor: 50, ActorID: "a"},
		{CostPerMinuteMinor: 10, TotalBudgetMinor: -1, MonthlyLimitMinor: 50, ActorID: "a"},
		{CostPerMinuteMinor: 10, TotalBudgetMinor: 100, MonthlyLimitMinor: 0, ActorID: "a"},
		{CostPerMinuteMinor: 10, TotalBudgetMinor: 100, MonthlyLimitMinor: 50, ActorID: ""},
	}
	for i, req := range cases {
		if _, err := svc.UpdateSettings(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestRemainingMinor_FloorsAtZero(t *testing.T) {
	if got := remainingMinor(1000, 400); got != 600 {
		t.Fatalf("remaining = %d, want 600", got)
	}
	if got := remainingMinor(1000, 1000); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
	if got := remainingMinor(1000, 1500); got != 0 {
		t.Fatalf("overspent budget must read as 0, got %d", got)
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2024, time.March, 17, 14, 30, 12, 0, time.FixedZone("IST", 5*3600+1800))
	got := monthStart(now)
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("monthStart = %v, want %v", got, want)
	}
}
