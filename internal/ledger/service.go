package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matrimony-platform/internal/audit"
	"matrimony-platform/pkg/utils"

	"github.com/google/uuid"
)

// Service is the single authority over CreditAllocation balances.
//
// Money invariants:
// - No balance mutation without an audit entry in the same transaction.
// - credits_remaining never goes negative and never exceeds credits_purchased.
// - Deduction consumes soonest-expiring allocations first.
//
// Concurrency:
// - A user's active allocation rows are locked (FOR UPDATE) for the duration
//   of any deduction or top-up, serializing concurrent money operations per
//   user without a process-wide lock.
type Service struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

var (
	ErrNotFound            = errors.New("ledger: not found")
	ErrInsufficientCredits = errors.New("ledger: insufficient credits")
	ErrInvalidArgument     = errors.New("ledger: invalid argument")
)

// AllocateRequest mints or tops up one allocation.
type AllocateRequest struct {
	UserID string
	// PlanID is empty for manual grants; non-empty plans top up the existing
	// (user, plan) allocation instead of creating a second row.
	PlanID   string
	Credits  int
	Validity time.Duration

	AdminAllocated bool
	Notes          string

	// Actor fields feed the audit entry.
	ActorID   string
	ActorRole string
}

func (r AllocateRequest) validate() error {
	if r.UserID == "" {
		return ErrInvalidArgument
	}
	if r.Credits <= 0 {
		return fmt.Errorf("%w: credits must be positive", ErrInvalidArgument)
	}
	if r.Validity <= 0 {
		return fmt.Errorf("%w: validity must be positive", ErrInvalidArgument)
	}
	return nil
}

func (s *Service) Allocate(ctx context.Context, req AllocateRequest) (CreditAllocation, error) {
	// Validate before touching the store; invalid requests never begin a
	// transaction.
	if err := req.validate(); err != nil {
		return CreditAllocation{}, err
	}

	var out CreditAllocation
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		out, err = s.AllocateTx(ctx, tx, req)
		return err
	})
	return out, err
}

// AllocateTx runs the allocation inside an existing transaction. The payment
// verification workflow uses this so the payment-status flip and the mint
// commit as one unit.
func (s *Service) AllocateTx(ctx context.Context, tx *sql.Tx, req AllocateRequest) (CreditAllocation, error) {
	if err := req.validate(); err != nil {
		return CreditAllocation{}, err
	}

	now := s.clock().UTC()
	expiresAt := now.Add(req.Validity)

	var out CreditAllocation
	if req.PlanID != "" {
		existing, ok, err := findAllocationForUpdate(ctx, tx, req.UserID, req.PlanID)
		if err != nil {
			return CreditAllocation{}, err
		}
		if ok {
			// Top-up: both purchased and remaining grow; expiry restarts.
			out, err = topUpAllocation(ctx, tx, existing.ID, req.Credits, expiresAt, now)
			if err != nil {
				return CreditAllocation{}, err
			}
		}
		if !ok {
			out, err = s.insertNew(ctx, tx, req, now, expiresAt)
			if err != nil {
				return CreditAllocation{}, err
			}
		}
	} else {
		var err error
		out, err = s.insertNew(ctx, tx, req, now, expiresAt)
		if err != nil {
			return CreditAllocation{}, err
		}
	}

	err := audit.InsertTx(ctx, tx, audit.Entry{
		Action:       audit.ActionAllocated,
		ActorID:      req.ActorID,
		ActorRole:    req.ActorRole,
		UserID:       req.UserID,
		AllocationID: out.ID,
		Amount:       req.Credits,
		Reason:       req.Notes,
	})
	if err != nil {
		return CreditAllocation{}, err
	}
	return out, nil
}

func (s *Service) insertNew(ctx context.Context, tx *sql.Tx, req AllocateRequest, now, expiresAt time.Time) (CreditAllocation, error) {
	a := CreditAllocation{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		PlanID:           req.PlanID,
		CreditsPurchased: req.Credits,
		CreditsRemaining: req.Credits,
		ExpiresAt:        expiresAt,
		AdminAllocated:   req.AdminAllocated,
		AllocationNotes:  req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := insertAllocation(ctx, tx, a); err != nil {
		return CreditAllocation{}, err
	}
	return a, nil
}

// TotalActiveBalance sums remaining and purchased credits across active
// allocations and reports the soonest expiry among them. Read-only.
func (s *Service) TotalActiveBalance(ctx context.Context, userID string) (Balance, error) {
	if userID == "" {
		return Balance{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	allocs, err := listActiveAllocations(ctx, s.db, userID, now)
	if err != nil {
		return Balance{}, err
	}

	out := Balance{UserID: userID, Allocations: allocs}
	for _, a := range allocs {
		out.TotalRemaining += a.CreditsRemaining
		out.TotalPurchased += a.CreditsPurchased
		if out.NextExpiry == nil || a.ExpiresAt.Before(*out.NextExpiry) {
			exp := a.ExpiresAt
			out.NextExpiry = &exp
		}
	}
	out.CreditsUsed = out.TotalPurchased - out.TotalRemaining
	return out, nil
}

func (s *Service) Deduct(ctx context.Context, userID string, amount int, sessionID string) error {
	if userID == "" {
		return ErrInvalidArgument
	}
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		return s.DeductTx(ctx, tx, userID, amount, sessionID)
	})
}

// DeductTx decrements credits_remaining across active allocations,
// soonest-expiring first, inside the caller's transaction. The session
// reconciler calls this in the same transaction that sets the session's
// billing flags; that pairing is the exactly-once guarantee.
//
// On ErrInsufficientCredits nothing has been applied; the caller decides
// whether that is fatal.
func (s *Service) DeductTx(ctx context.Context, tx *sql.Tx, userID string, amount int, sessionID string) error {
	if userID == "" {
		return ErrInvalidArgument
	}

	now := s.clock().UTC()
	allocs, err := lockActiveAllocations(ctx, tx, userID, now)
	if err != nil {
		return err
	}

	draws, err := planDeduction(allocs, amount)
	if err != nil {
		return err
	}

	for _, d := range draws {
		if err := applyDraw(ctx, tx, d.AllocationID, d.Amount, now); err != nil {
			return err
		}
	}

	return audit.InsertTx(ctx, tx, audit.Entry{
		Action:    audit.ActionDeducted,
		ActorID:   userID,
		UserID:    userID,
		SessionID: sessionID,
		Amount:    amount,
		Reason:    "call completed",
	})
}
