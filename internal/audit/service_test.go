package audit

import (
	"context"
	"testing"
)

func TestAppend_FillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	err := svc.Append(context.Background(), Entry{
		Action:  ActionDeducted,
		ActorID: "u1",
		UserID:  "u1",
		Amount:  1,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := repo.Entries()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled: %+v", got[0])
	}
}

func TestRecent_FiltersByUserNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	for _, e := range []Entry{
		{Action: ActionAllocated, UserID: "u1", Amount: 10},
		{Action: ActionDeducted, UserID: "u2", Amount: 1},
		{Action: ActionDeducted, UserID: "u1", Amount: 1},
	} {
		if err := svc.Append(context.Background(), e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := svc.Recent(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for u1, got %d", len(got))
	}
	if got[0].Action != ActionDeducted || got[1].Action != ActionAllocated {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestAppend_RejectsMissingAction(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Append(context.Background(), Entry{ActorID: "u1"}); err != ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}
