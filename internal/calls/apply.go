package calls

import "time"

// Update is a normalized provider observation ready to be applied to a
// session row.
type Update struct {
	Status          Status
	DurationSeconds int
	RecordingURL    string
}

// BillingDecision says whether this application crossed into terminal state
// for the first time and must trigger the one-credit debit.
type BillingDecision struct {
	Bill      bool
	CostMinor int64
}

// applyUpdate folds a provider observation into a session. Pure: the caller
// holds the row lock and persists the result.
//
// Rules:
// - Duration never regresses, even if the provider reports a smaller value.
// - started_at is stamped on the first transition into in_progress,
//   ended_at on the first transition into a terminal state.
// - Cost and both deduction flags are set together on the first terminal
//   observation only; later observations refresh status/duration and leave
//   billing untouched.
func applyUpdate(s CallSession, upd Update, costPerMinuteMinor int64, now time.Time) (CallSession, BillingDecision) {
	s.Status = upd.Status

	if upd.DurationSeconds > s.DurationSeconds {
		s.DurationSeconds = upd.DurationSeconds
	}
	if upd.RecordingURL != "" {
		s.RecordingURL = upd.RecordingURL
	}

	if s.StartedAt == nil && upd.Status == StatusInProgress {
		t := now
		s.StartedAt = &t
	}
	if s.EndedAt == nil && upd.Status.IsTerminal() {
		t := now
		s.EndedAt = &t
	}

	var decision BillingDecision
	if upd.Status.IsTerminal() && !s.Billed() {
		decision.Bill = true
		decision.CostMinor = int64(BillableMinutes(s.DurationSeconds)) * costPerMinuteMinor

		s.CostMinor = decision.CostMinor
		s.CallerCreditsDeducted = true
		s.ReceiverCreditsDeducted = true
	}

	s.UpdatedAt = now
	return s, decision
}

// BillableMinutes rounds a duration in seconds up to whole minutes.
func BillableMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	m := seconds / 60
	if seconds%60 != 0 {
		m++
	}
	return m
}
