package ledger

// draw is one allocation's share of a deduction.
type draw struct {
	AllocationID string
	Amount       int
}

// planDeduction decides how a deduction spreads across active allocations.
// allocs must already be filtered to active rows and ordered by expires_at
// ascending: the soonest-expiring batch is consumed first so fewer credits
// are lost to expiry.
//
// Returns ErrInsufficientCredits when the active balance cannot cover amount;
// in that case no draws are returned and nothing may be applied.
func planDeduction(allocs []CreditAllocation, amount int) ([]draw, error) {
	if amount <= 0 {
		return nil, ErrInvalidArgument
	}

	var draws []draw
	left := amount
	for _, a := range allocs {
		if left == 0 {
			break
		}
		if a.CreditsRemaining <= 0 {
			continue
		}
		take := a.CreditsRemaining
		if take > left {
			take = left
		}
		draws = append(draws, draw{AllocationID: a.ID, Amount: take})
		left -= take
	}

	if left > 0 {
		return nil, ErrInsufficientCredits
	}
	return draws, nil
}
