package payments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

// The verification flow itself (pending-status precondition, allocation
// mint, conflict on re-verification) locks rows with Postgres-specific SQL
// and needs a live Postgres to exercise. Request validation is unit-testable.

func TestVerify_RejectsInvalidArgs(t *testing.T) {
	svc := NewService((*sql.DB)(nil), nil)

	_, err := svc.Verify(context.Background(), VerifyRequest{PaymentID: "", Action: ActionVerify, AdminID: "a"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing payment id, got %v", err)
	}

	_, err = svc.Verify(context.Background(), VerifyRequest{PaymentID: "p", Action: ActionVerify, AdminID: ""})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing admin id, got %v", err)
	}

	_, err = svc.Verify(context.Background(), VerifyRequest{PaymentID: "p", Action: "approve", AdminID: "a"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown action, got %v", err)
	}
}
