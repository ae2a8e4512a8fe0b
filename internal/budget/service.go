package budget

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matrimony-platform/internal/audit"
	"matrimony-platform/pkg/utils"
)

var ErrInvalidArgument = errors.New("budget: invalid argument")

type Service struct {
	db    *sql.DB
	clock func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, clock: time.Now}
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return getSettings(ctx, s.db)
}

// CostPerMinuteMinor exposes the current rate to the call reconciler.
func (s *Service) CostPerMinuteMinor(ctx context.Context) (int64, error) {
	set, err := getSettings(ctx, s.db)
	if err != nil {
		return 0, err
	}
	return set.CostPerMinuteMinor, nil
}

type UpdateRequest struct {
	CostPerMinuteMinor int64
	TotalBudgetMinor   int64
	MonthlyLimitMinor  int64
	ActorID            string
	ActorRole          string
}

func (r UpdateRequest) validate() error {
	if r.CostPerMinuteMinor <= 0 || r.TotalBudgetMinor <= 0 || r.MonthlyLimitMinor <= 0 {
		return ErrInvalidArgument
	}
	if r.ActorID == "" {
		return ErrInvalidArgument
	}
	return nil
}

// UpdateSettings replaces the budget row and records who changed it.
// Rates apply to calls billed after the commit; already-billed sessions
// keep the cost they were priced at.
func (s *Service) UpdateSettings(ctx context.Context, req UpdateRequest) (Settings, error) {
	if err := req.validate(); err != nil {
		return Settings{}, err
	}

	now := s.clock().UTC()
	var out Settings

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		set, err := updateSettings(ctx, tx, req, now)
		if err != nil {
			return err
		}
		if err := audit.InsertTx(ctx, tx, audit.Entry{
			Action:    audit.ActionSettingsChanged,
			ActorID:   req.ActorID,
			ActorRole: req.ActorRole,
			Amount:    int(req.CostPerMinuteMinor),
			Reason:    "budget settings updated",
		}); err != nil {
			return err
		}
		out = set
		return nil
	})
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}

// Usage aggregates billed session costs into an org-wide spend summary.
func (s *Service) Usage(ctx context.Context) (Usage, error) {
	set, err := getSettings(ctx, s.db)
	if err != nil {
		return Usage{}, err
	}

	used, monthUsed, billed, err := usageTotals(ctx, s.db, monthStart(s.clock()))
	if err != nil {
		return Usage{}, err
	}

	return Usage{
		CostPerMinuteMinor:  set.CostPerMinuteMinor,
		TotalBudgetMinor:    set.TotalBudgetMinor,
		UsedMinor:           used,
		RemainingMinor:      remainingMinor(set.TotalBudgetMinor, used),
		MonthlyLimitMinor:   set.MonthlyLimitMinor,
		MonthUsedMinor:      monthUsed,
		MonthRemainingMinor: remainingMinor(set.MonthlyLimitMinor, monthUsed),
		BilledCalls:         billed,
	}, nil
}
