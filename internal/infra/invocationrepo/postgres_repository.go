package invocationrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/assistant-actions/internal/domain/action"
)

const schema = `
CREATE TABLE IF NOT EXISTS action_invocations (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	sender_id   TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	error_code  TEXT,
	duration_ms BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS action_invocations_created_at_idx ON action_invocations (created_at DESC);
`

// PostgresRepository implements action.InvocationLog using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the invocation table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create invocation schema: %w", err)
	}
	return nil
}

// Append implements action.InvocationLog.
func (r *PostgresRepository) Append(ctx context.Context, inv action.Invocation) error {
	var errorCode any
	if inv.ErrorCode != "" {
		errorCode = inv.ErrorCode
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO action_invocations (id, action, sender_id, outcome, error_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, inv.ID, inv.Action, inv.SenderID, string(inv.Outcome), errorCode, inv.Duration.Milliseconds(), inv.CreatedAt)
	return err
}

// Recent implements action.InvocationLog, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]action.Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, action, sender_id, outcome, error_code, duration_ms, created_at
		FROM action_invocations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []action.Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvocation(row rowScanner) (action.Invocation, error) {
	var (
		inv        action.Invocation
		id         uuid.UUID
		outcome    string
		errorCode  sql.NullString
		durationMS int64
	)
	if err := row.Scan(&id, &inv.Action, &inv.SenderID, &outcome, &errorCode, &durationMS, &inv.CreatedAt); err != nil {
		return action.Invocation{}, err
	}
	inv.ID = id
	inv.Outcome = action.Outcome(outcome)
	inv.ErrorCode = errorCode.String
	inv.Duration = time.Duration(durationMS) * time.Millisecond
	return inv, nil
}

var _ action.InvocationLog = (*PostgresRepository)(nil)
