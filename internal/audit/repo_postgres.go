package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// InsertTx appends an entry inside an existing transaction. Used by the
// ledger, payments and budget services so the audit row commits or rolls
// back together with the mutation it describes.
func InsertTx(ctx context.Context, tx *sql.Tx, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	const q = `
INSERT INTO audit_log (
  id, action, actor_id, actor_role, user_id, allocation_id, session_id, payment_id,
  amount, reason, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)
`
	_, err := tx.ExecContext(ctx, q,
		e.ID,
		e.Action,
		e.ActorID,
		e.ActorRole,
		e.UserID,
		e.AllocationID,
		e.SessionID,
		e.PaymentID,
		e.Amount,
		e.Reason,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}

// PostgresRepo is the insert-only Repository implementation.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	const q = `
SELECT id, action, actor_id, actor_role, user_id, allocation_id, session_id, payment_id,
       amount, reason, metadata, created_at
FROM audit_log
WHERE $1 = '' OR user_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.ActorID,
			&e.ActorRole,
			&e.UserID,
			&e.AllocationID,
			&e.SessionID,
			&e.PaymentID,
			&e.Amount,
			&e.Reason,
			&e.Metadata,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Append(ctx context.Context, e Entry) error {
	const q = `
INSERT INTO audit_log (
  id, action, actor_id, actor_role, user_id, allocation_id, session_id, payment_id,
  amount, reason, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Action,
		e.ActorID,
		e.ActorRole,
		e.UserID,
		e.AllocationID,
		e.SessionID,
		e.PaymentID,
		e.Amount,
		e.Reason,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
