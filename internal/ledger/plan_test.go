package ledger

import (
	"errors"
	"testing"
	"time"
)

func alloc(id string, remaining int, expiresIn time.Duration) CreditAllocation {
	now := time.Unix(1700000000, 0).UTC()
	return CreditAllocation{
		ID:               id,
		UserID:           "u1",
		CreditsPurchased: remaining,
		CreditsRemaining: remaining,
		ExpiresAt:        now.Add(expiresIn),
	}
}

func TestPlanDeduction_SoonestExpiryFirst(t *testing.T) {
	allocs := []CreditAllocation{
		alloc("soon", 2, time.Hour),
		alloc("later", 5, 48*time.Hour),
	}

	draws, err := planDeduction(allocs, 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(draws))
	}
	if draws[0].AllocationID != "soon" || draws[0].Amount != 2 {
		t.Fatalf("expected soonest batch drained first, got %+v", draws[0])
	}
	if draws[1].AllocationID != "later" || draws[1].Amount != 1 {
		t.Fatalf("expected remainder from later batch, got %+v", draws[1])
	}
}

func TestPlanDeduction_SingleAllocationExactBalance(t *testing.T) {
	draws, err := planDeduction([]CreditAllocation{alloc("a", 1, time.Hour)}, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(draws) != 1 || draws[0].Amount != 1 {
		t.Fatalf("unexpected draws: %+v", draws)
	}
}

func TestPlanDeduction_InsufficientBalance(t *testing.T) {
	_, err := planDeduction([]CreditAllocation{alloc("a", 2, time.Hour)}, 3)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	_, err = planDeduction(nil, 1)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits on empty ledger, got %v", err)
	}
}

func TestPlanDeduction_RejectsNonPositiveAmount(t *testing.T) {
	if _, err := planDeduction([]CreditAllocation{alloc("a", 2, time.Hour)}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPlanDeduction_SkipsDrainedAllocations(t *testing.T) {
	drained := alloc("empty", 0, time.Hour)
	live := alloc("live", 1, 2*time.Hour)

	draws, err := planDeduction([]CreditAllocation{drained, live}, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(draws) != 1 || draws[0].AllocationID != "live" {
		t.Fatalf("expected only the live allocation drawn, got %+v", draws)
	}
}
