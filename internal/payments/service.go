package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matrimony-platform/internal/audit"
	"matrimony-platform/internal/ledger"
	"matrimony-platform/pkg/utils"
)

var (
	ErrNotFound        = errors.New("payments: not found")
	ErrConflict        = errors.New("payments: already processed")
	ErrInvalidArgument = errors.New("payments: invalid argument")
)

type Action string

const (
	ActionVerify Action = "verify"
	ActionReject Action = "reject"
)

// creditValidity is how long verified-plan credits stay usable.
const creditValidity = 90 * 24 * time.Hour // ~3 months

// Service drives the admin verification workflow.
//
// Re-entrancy: two admins verifying the same payment must not double-mint.
// The payment row is locked and its pending status re-checked inside the
// same transaction that flips it, so the second attempt sees a non-pending
// row and fails with ErrConflict.
type Service struct {
	db     *sql.DB
	ledger *ledger.Service
	clock  func() time.Time
}

func NewService(db *sql.DB, led *ledger.Service) *Service {
	return &Service{db: db, ledger: led, clock: time.Now}
}

type VerifyRequest struct {
	PaymentID string
	Action    Action
	AdminID   string
	AdminRole string
	Notes     string
}

func (r VerifyRequest) validate() error {
	if r.PaymentID == "" || r.AdminID == "" {
		return ErrInvalidArgument
	}
	if r.Action != ActionVerify && r.Action != ActionReject {
		return ErrInvalidArgument
	}
	return nil
}

// Verify flips a pending payment to verified or rejected. On verify it also
// mints the plan's call credits; the status flip, the mint and both audit
// entries commit as one transaction.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (Payment, error) {
	if err := req.validate(); err != nil {
		return Payment{}, err
	}

	now := s.clock().UTC()
	var out Payment

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		p, ok, err := lockPayment(ctx, tx, req.PaymentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if p.Status != PaymentStatusPending {
			return ErrConflict
		}

		plan, ok, err := getPlan(ctx, tx, p.PlanID)
		if err != nil {
			return err
		}
		if !ok || plan.CallCredits <= 0 {
			// Not a call-credit plan; this workflow has no business with it.
			return ErrNotFound
		}

		newStatus := PaymentStatusRejected
		auditAction := audit.ActionPaymentRejected
		if req.Action == ActionVerify {
			newStatus = PaymentStatusVerified
			auditAction = audit.ActionPaymentVerified
		}

		p, err = updatePaymentStatus(ctx, tx, p.ID, newStatus, req.AdminID, req.Notes, now)
		if err != nil {
			return err
		}

		if req.Action == ActionVerify {
			// AllocateTx writes its own "allocated" audit entry.
			_, err := s.ledger.AllocateTx(ctx, tx, ledger.AllocateRequest{
				UserID:    p.UserID,
				PlanID:    p.PlanID,
				Credits:   plan.CallCredits,
				Validity:  creditValidity,
				Notes:     "payment " + p.ID + " verified",
				ActorID:   req.AdminID,
				ActorRole: req.AdminRole,
			})
			if err != nil {
				return err
			}
		}

		if err := audit.InsertTx(ctx, tx, audit.Entry{
			Action:    auditAction,
			ActorID:   req.AdminID,
			ActorRole: req.AdminRole,
			UserID:    p.UserID,
			PaymentID: p.ID,
			Amount:    plan.CallCredits,
			Reason:    req.Notes,
		}); err != nil {
			return err
		}

		out = p
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	return out, nil
}
