package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

// The money paths (Allocate/Deduct) are implemented with Postgres-specific
// SQL (SELECT ... FOR UPDATE, upsert via row lock) and need a live Postgres
// to exercise end to end. Request validation is safely unit-testable without
// a DB, as is the deduction planner (plan_test.go).

// The nil *sql.DB doubles as the assertion that invalid requests are
// rejected before a transaction is opened.
func TestAllocate_RejectsInvalidArgs(t *testing.T) {
	svc := NewService((*sql.DB)(nil))

	cases := []AllocateRequest{
		{UserID: "", Credits: 10, Validity: time.Hour},
		{UserID: "u", Credits: 0, Validity: time.Hour},
		{UserID: "u", Credits: -3, Validity: time.Hour},
		{UserID: "u", Credits: 10, Validity: 0},
	}
	for i, req := range cases {
		if _, err := svc.Allocate(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestDeduct_RejectsMissingUser(t *testing.T) {
	svc := NewService((*sql.DB)(nil))

	if err := svc.Deduct(context.Background(), "", 1, "s1"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAllocateTx_RejectsNonPositiveCredits(t *testing.T) {
	svc := NewService((*sql.DB)(nil))

	_, err := svc.AllocateTx(context.Background(), nil, AllocateRequest{UserID: "u", Credits: 0, Validity: time.Hour})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero credits, got %v", err)
	}

	_, err = svc.AllocateTx(context.Background(), nil, AllocateRequest{UserID: "u", Credits: -5, Validity: time.Hour})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative credits, got %v", err)
	}

	_, err = svc.AllocateTx(context.Background(), nil, AllocateRequest{UserID: "u", Credits: 5, Validity: 0})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero validity, got %v", err)
	}
}

func TestDeductTx_RejectsMissingUser(t *testing.T) {
	svc := NewService((*sql.DB)(nil))
	if err := svc.DeductTx(context.Background(), nil, "", 1, "s1"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTotalActiveBalance_RejectsMissingUser(t *testing.T) {
	svc := NewService((*sql.DB)(nil))
	if _, err := svc.TotalActiveBalance(context.Background(), ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBalance_CanMakeCalls(t *testing.T) {
	if (Balance{}).CanMakeCalls() {
		t.Fatalf("empty balance should not allow calls")
	}
	if !(Balance{TotalRemaining: 1}).CanMakeCalls() {
		t.Fatalf("positive balance should allow calls")
	}
}

func TestAllocation_Active(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	a := CreditAllocation{CreditsRemaining: 1, ExpiresAt: now.Add(time.Hour)}
	if !a.Active(now) {
		t.Fatalf("expected active")
	}

	expired := CreditAllocation{CreditsRemaining: 1, ExpiresAt: now.Add(-time.Hour)}
	if expired.Active(now) {
		t.Fatalf("expired allocation must not be active")
	}

	drained := CreditAllocation{CreditsRemaining: 0, ExpiresAt: now.Add(time.Hour)}
	if drained.Active(now) {
		t.Fatalf("drained allocation must not be active")
	}
}
