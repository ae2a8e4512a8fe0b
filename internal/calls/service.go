package calls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matrimony-platform/internal/audit"
	"matrimony-platform/internal/ledger"
	"matrimony-platform/internal/telephony"
	"matrimony-platform/pkg/logger"
	"matrimony-platform/pkg/metrics"
	"matrimony-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound        = errors.New("calls: session not found")
	ErrInvalidArgument = errors.New("calls: invalid argument")
)

// creditsPerCall is the flat debit for a completed call, regardless of
// duration. Per-minute cost is still computed and stored for budget
// reporting; only the credit debit is flat.
const creditsPerCall = 1

// RateSource supplies the current per-minute provider cost. Implemented by
// the budget settings service.
type RateSource interface {
	CostPerMinuteMinor(ctx context.Context) (int64, error)
}

// Service keeps CallSession records consistent with the external provider
// and triggers billing exactly once per session.
//
// The provider round trip never happens inside a store transaction: the
// response is fetched and normalized first, then a single transaction
// re-reads the row under lock, applies the update and (at most once) the
// credit deduction.
type Service struct {
	db       *sql.DB
	provider telephony.Provider
	ledger   *ledger.Service
	rates    RateSource

	// rdb backs the best-effort sync-in-flight guard; nil disables it.
	rdb *redis.Client

	clock func() time.Time
}

func NewService(db *sql.DB, provider telephony.Provider, led *ledger.Service, rates RateSource, rdb *redis.Client) *Service {
	return &Service{
		db:       db,
		provider: provider,
		ledger:   led,
		rates:    rates,
		rdb:      rdb,
		clock:    time.Now,
	}
}

// syncGuardTTL bounds how long a crashed sync can shadow the next one.
const syncGuardTTL = 15 * time.Second

// Initiate records a new session in the initiated state. The external call
// id may arrive later, once the client's provider leg is set up.
func (s *Service) Initiate(ctx context.Context, callerID, receiverID, externalCallID string) (Snapshot, error) {
	if callerID == "" || receiverID == "" {
		return Snapshot{}, ErrInvalidArgument
	}
	if callerID == receiverID {
		return Snapshot{}, fmt.Errorf("%w: caller and receiver must differ", ErrInvalidArgument)
	}

	now := s.clock().UTC()
	sess := CallSession{
		ID:             uuid.NewString(),
		CallerID:       callerID,
		ReceiverID:     receiverID,
		ExternalCallID: externalCallID,
		Status:         StatusInitiated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := insertSession(ctx, s.db, sess); err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Get returns the stored snapshot without touching the provider.
// Sessions are only visible to their two parties.
func (s *Service) Get(ctx context.Context, sessionID, principalID string) (Snapshot, error) {
	sess, err := getSessionByID(ctx, s.db, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	if !sess.Involves(principalID) {
		return Snapshot{}, ErrNotFound
	}
	return sess.Snapshot(), nil
}

// Reconcile looks the session up by internal id.
func (s *Service) Reconcile(ctx context.Context, sessionID, principalID string) (Snapshot, error) {
	sess, err := getSessionByID(ctx, s.db, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.reconcile(ctx, sess, principalID)
}

// ReconcileByExternalID looks the session up by the provider's call id.
func (s *Service) ReconcileByExternalID(ctx context.Context, externalCallID, principalID string) (Snapshot, error) {
	if externalCallID == "" {
		return Snapshot{}, ErrInvalidArgument
	}
	sess, err := getSessionByExternalID(ctx, s.db, externalCallID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.reconcile(ctx, sess, principalID)
}

func (s *Service) reconcile(ctx context.Context, sess CallSession, principalID string) (Snapshot, error) {
	log := logger.From(ctx)

	if !sess.Involves(principalID) {
		return Snapshot{}, ErrNotFound
	}

	// No provider leg yet; nothing to ask the provider about.
	if sess.ExternalCallID == "" {
		return sess.Snapshot(), nil
	}

	// Collapse duplicate polls for the same session onto the stored
	// snapshot instead of stacking provider calls. Best-effort: a redis
	// failure must never block reconciliation.
	guardKey := "call-sync:" + sess.ExternalCallID
	if s.rdb != nil {
		acquired, err := utils.AcquireSyncGuard(ctx, s.rdb, guardKey, syncGuardTTL)
		if err != nil {
			log.Warn("sync guard unavailable", "session_id", sess.ID, "err", err)
		} else if !acquired {
			metrics.Reconciliations.WithLabelValues("collapsed").Inc()
			return sess.Snapshot(), nil
		} else {
			defer func() { _ = utils.ReleaseSyncGuard(ctx, s.rdb, guardKey) }()
		}
	}

	state, err := s.provider.FetchCallState(ctx, sess.ExternalCallID)
	if err != nil {
		metrics.ProviderErrors.Inc()
		log.Warn("provider status fetch failed",
			"session_id", sess.ID, "external_call_id", sess.ExternalCallID, "err", err)
		return Snapshot{}, err
	}

	rate, err := s.rates.CostPerMinuteMinor(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	upd := Update{
		Status:          Normalize(state.Status),
		DurationSeconds: state.DurationSeconds,
		RecordingURL:    state.RecordingURL,
	}

	now := s.clock().UTC()
	var out CallSession
	outcome := "updated"

	err = utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		// Re-read under lock: the billing-flag check and set must share
		// this transaction with the deduction.
		locked, err := lockSession(ctx, tx, sess.ID)
		if err != nil {
			return err
		}

		next, decision := applyUpdate(locked, upd, rate, now)
		if err := updateSession(ctx, tx, next); err != nil {
			return err
		}

		if decision.Bill {
			outcome = "billed"
			err := s.ledger.DeductTx(ctx, tx, next.CallerID, creditsPerCall, next.ID)
			if errors.Is(err, ledger.ErrInsufficientCredits) {
				// A completed call already consumed provider minutes and
				// cannot be undone: keep the session terminal and billed,
				// record the failure for manual reconciliation.
				metrics.InsufficientCredits.Inc()
				log.Warn("credit deduction failed, balance exhausted",
					"session_id", next.ID, "user_id", next.CallerID)
				if auditErr := audit.InsertTx(ctx, tx, audit.Entry{
					Action:    audit.ActionDeductionFailed,
					ActorID:   next.CallerID,
					UserID:    next.CallerID,
					SessionID: next.ID,
					Amount:    creditsPerCall,
					Reason:    "insufficient credits at call completion",
				}); auditErr != nil {
					return auditErr
				}
			} else if err != nil {
				return err
			} else {
				metrics.CreditDeductions.Inc()
			}
		}

		out = next
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	metrics.Reconciliations.WithLabelValues(outcome).Inc()
	return out.Snapshot(), nil
}
