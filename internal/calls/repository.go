package calls

import (
	"context"
	"database/sql"
	"errors"
)

// Table: call_sessions, keyed by id with a unique index on external_call_id.

const sessionColumns = `
id, caller_id, receiver_id, external_call_id, status, duration_seconds,
started_at, ended_at, recording_url, cost_minor,
caller_credits_deducted, receiver_credits_deducted, created_at, updated_at
`

func insertSession(ctx context.Context, db *sql.DB, s CallSession) error {
	const q = `
INSERT INTO call_sessions (
  id, caller_id, receiver_id, external_call_id, status, duration_seconds,
  started_at, ended_at, recording_url, cost_minor,
  caller_credits_deducted, receiver_credits_deducted, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
)
`
	_, err := db.ExecContext(ctx, q,
		s.ID,
		s.CallerID,
		s.ReceiverID,
		nullIfEmpty(s.ExternalCallID),
		s.Status,
		s.DurationSeconds,
		s.StartedAt,
		s.EndedAt,
		s.RecordingURL,
		s.CostMinor,
		s.CallerCreditsDeducted,
		s.ReceiverCreditsDeducted,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func getSessionByID(ctx context.Context, db *sql.DB, id string) (CallSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM call_sessions WHERE id = $1`
	return scanSession(db.QueryRowContext(ctx, q, id))
}

func getSessionByExternalID(ctx context.Context, db *sql.DB, externalCallID string) (CallSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM call_sessions WHERE external_call_id = $1`
	return scanSession(db.QueryRowContext(ctx, q, externalCallID))
}

// lockSession re-reads the row under FOR UPDATE so the billing-flag check
// and the flag set happen inside one transaction, not read-then-write.
func lockSession(ctx context.Context, tx *sql.Tx, id string) (CallSession, error) {
	const q = `SELECT ` + sessionColumns + ` FROM call_sessions WHERE id = $1 FOR UPDATE`
	return scanSession(tx.QueryRowContext(ctx, q, id))
}

func updateSession(ctx context.Context, tx *sql.Tx, s CallSession) error {
	const q = `
UPDATE call_sessions
SET external_call_id = $2,
    status = $3,
    duration_seconds = $4,
    started_at = $5,
    ended_at = $6,
    recording_url = $7,
    cost_minor = $8,
    caller_credits_deducted = $9,
    receiver_credits_deducted = $10,
    updated_at = $11
WHERE id = $1
`
	_, err := tx.ExecContext(ctx, q,
		s.ID,
		nullIfEmpty(s.ExternalCallID),
		s.Status,
		s.DurationSeconds,
		s.StartedAt,
		s.EndedAt,
		s.RecordingURL,
		s.CostMinor,
		s.CallerCreditsDeducted,
		s.ReceiverCreditsDeducted,
		s.UpdatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (CallSession, error) {
	var s CallSession
	var externalCallID sql.NullString
	var recordingURL sql.NullString
	var startedAt, endedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.CallerID,
		&s.ReceiverID,
		&externalCallID,
		&s.Status,
		&s.DurationSeconds,
		&startedAt,
		&endedAt,
		&recordingURL,
		&s.CostMinor,
		&s.CallerCreditsDeducted,
		&s.ReceiverCreditsDeducted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallSession{}, ErrNotFound
		}
		return CallSession{}, err
	}

	s.ExternalCallID = externalCallID.String
	s.RecordingURL = recordingURL.String
	if startedAt.Valid {
		t := startedAt.Time
		s.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}
	return s, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
