package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only. No Update/Delete methods are provided; List is a
// read for the admin trail.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// Service records ledger-affecting actions.
//
// Entries written alongside a money mutation go through InsertTx so they
// share the mutation's transaction; Service.Append is for standalone,
// best-effort records.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEntry = errors.New("audit: invalid entry")

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Action == "" {
		return ErrInvalidEntry
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

const defaultListLimit = 100

// Recent returns the newest entries, optionally scoped to one member.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if limit <= 0 || limit > 1000 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, userID, limit)
}
