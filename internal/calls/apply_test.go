package calls

import (
	"testing"
	"time"
)

const testRateMinor = int64(150) // 1.50 per minute

func baseSession() CallSession {
	now := time.Unix(1700000000, 0).UTC()
	return CallSession{
		ID:         "s1",
		CallerID:   "caller",
		ReceiverID: "receiver",
		Status:     StatusInitiated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestApplyUpdate_FirstTerminalObservationBills(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()

	next, decision := applyUpdate(baseSession(), Update{Status: StatusCompleted, DurationSeconds: 95}, testRateMinor, now)

	if !decision.Bill {
		t.Fatalf("expected billing decision")
	}
	// 95s rounds up to 2 minutes.
	if decision.CostMinor != 2*testRateMinor {
		t.Fatalf("expected cost %d, got %d", 2*testRateMinor, decision.CostMinor)
	}
	if !next.CallerCreditsDeducted || !next.ReceiverCreditsDeducted {
		t.Fatalf("expected both deduction flags set")
	}
	if next.CostMinor != decision.CostMinor {
		t.Fatalf("cost must be stored on the session")
	}
	if next.EndedAt == nil || !next.EndedAt.Equal(now) {
		t.Fatalf("expected ended_at stamped on first terminal transition")
	}
}

func TestApplyUpdate_RepeatedTerminalObservationIsBillingNoop(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()
	s, _ := applyUpdate(baseSession(), Update{Status: StatusCompleted, DurationSeconds: 95}, testRateMinor, now)
	endedAt := *s.EndedAt

	later := now.Add(time.Minute)
	next, decision := applyUpdate(s, Update{Status: StatusCompleted, DurationSeconds: 95}, testRateMinor, later)

	if decision.Bill {
		t.Fatalf("second terminal observation must not bill again")
	}
	if next.CostMinor != s.CostMinor {
		t.Fatalf("cost must not change on re-observation")
	}
	if !next.EndedAt.Equal(endedAt) {
		t.Fatalf("ended_at must keep its first value")
	}
}

func TestApplyUpdate_DurationNeverRegresses(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()
	s := baseSession()
	s.DurationSeconds = 120

	next, _ := applyUpdate(s, Update{Status: StatusInProgress, DurationSeconds: 40}, testRateMinor, now)
	if next.DurationSeconds != 120 {
		t.Fatalf("duration regressed: %d", next.DurationSeconds)
	}

	next, _ = applyUpdate(next, Update{Status: StatusInProgress, DurationSeconds: 180}, testRateMinor, now)
	if next.DurationSeconds != 180 {
		t.Fatalf("duration should grow: %d", next.DurationSeconds)
	}
}

func TestApplyUpdate_StartedAtOnFirstInProgress(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()

	s, _ := applyUpdate(baseSession(), Update{Status: StatusRinging}, testRateMinor, now)
	if s.StartedAt != nil {
		t.Fatalf("ringing must not stamp started_at")
	}

	s, _ = applyUpdate(s, Update{Status: StatusInProgress}, testRateMinor, now)
	if s.StartedAt == nil || !s.StartedAt.Equal(now) {
		t.Fatalf("expected started_at on first in_progress")
	}

	later := now.Add(time.Minute)
	s2, _ := applyUpdate(s, Update{Status: StatusInProgress}, testRateMinor, later)
	if !s2.StartedAt.Equal(now) {
		t.Fatalf("started_at must keep its first value")
	}
}

func TestApplyUpdate_BusyZeroDurationBillsAtZeroCost(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()

	next, decision := applyUpdate(baseSession(), Update{Status: StatusBusy, DurationSeconds: 0}, testRateMinor, now)

	if !decision.Bill {
		t.Fatalf("busy is terminal and must run the billing cycle")
	}
	if decision.CostMinor != 0 {
		t.Fatalf("zero duration must cost zero, got %d", decision.CostMinor)
	}
	if !next.Billed() {
		t.Fatalf("flags must be set even for a zero-cost cycle")
	}
}

func TestApplyUpdate_UnknownStatusNeverBills(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()

	next, decision := applyUpdate(baseSession(), Update{Status: StatusUnknown, DurationSeconds: 30}, testRateMinor, now)
	if decision.Bill || next.Billed() {
		t.Fatalf("unknown status must not trigger billing")
	}
}

func TestApplyUpdate_BillsAtMostOnceAcrossSequences(t *testing.T) {
	now := time.Unix(1700000100, 0).UTC()
	seq := []Update{
		{Status: StatusRinging},
		{Status: StatusInProgress, DurationSeconds: 10},
		{Status: StatusInProgress, DurationSeconds: 50},
		{Status: StatusCompleted, DurationSeconds: 61},
		{Status: StatusCompleted, DurationSeconds: 61},
		{Status: StatusCompleted, DurationSeconds: 70},
	}

	s := baseSession()
	bills := 0
	for i, upd := range seq {
		var d BillingDecision
		s, d = applyUpdate(s, upd, testRateMinor, now.Add(time.Duration(i)*time.Second))
		if d.Bill {
			bills++
		}
	}
	if bills != 1 {
		t.Fatalf("expected exactly one billing decision, got %d", bills)
	}
	if s.DurationSeconds != 70 {
		t.Fatalf("expected final duration 70, got %d", s.DurationSeconds)
	}
	// Cost reflects the duration at first terminal observation (61s -> 2 min).
	if s.CostMinor != 2*testRateMinor {
		t.Fatalf("expected cost %d, got %d", 2*testRateMinor, s.CostMinor)
	}
}

func TestBillableMinutes(t *testing.T) {
	cases := map[int]int{
		0:   0,
		-5:  0,
		1:   1,
		59:  1,
		60:  1,
		61:  2,
		120: 2,
		121: 3,
	}
	for sec, want := range cases {
		if got := BillableMinutes(sec); got != want {
			t.Errorf("BillableMinutes(%d) = %d, want %d", sec, got, want)
		}
	}
}
