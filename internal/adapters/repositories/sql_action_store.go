package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/platform/obs"
)

// SQLActionStore is the Postgres-backed ActionStore used when the
// dispatch core runs server-side rather than on a field device.
type SQLActionStore struct{ DB *sql.DB }

func NewSQLActionStore(db *sql.DB) *SQLActionStore {
	return &SQLActionStore{DB: db}
}

// InitSQLSchema creates the queue schema on Postgres.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init sql schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS queued_actions (
		id BIGSERIAL PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		timestamp BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		retries INTEGER NOT NULL DEFAULT 0,
		max_retries INTEGER NOT NULL DEFAULT 3,
		error TEXT NOT NULL DEFAULT '',
		completed_at BIGINT
	);
	CREATE INDEX IF NOT EXISTS idx_queued_actions_status_timestamp
	ON queued_actions(status, timestamp);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("init sql schema: %w", err)
	}

	return nil
}

func (s *SQLActionStore) Append(ctx context.Context, a domain.QueuedAction) (_ int64, err error) {
	defer obs.Time(ctx, "action_store.Append")(&err)

	if s.DB == nil {
		return 0, errors.New("action store: DB is nil")
	}

	payload := a.Payload
	if payload == nil {
		payload = json.RawMessage("null")
	}

	query := `
	INSERT INTO queued_actions (action_type, payload, timestamp, status, retries, max_retries, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id;
	`
	var id int64
	err = s.DB.QueryRowContext(ctx, query,
		a.ActionType, string(payload), a.Timestamp,
		string(a.Status), a.Retries, a.MaxRetries, a.Error,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append action: insert: %w", err)
	}

	return id, nil
}

func (s *SQLActionStore) ListPending(ctx context.Context) (_ []domain.QueuedAction, err error) {
	defer obs.Time(ctx, "action_store.ListPending")(&err)

	if s.DB == nil {
		return nil, errors.New("action store: DB is nil")
	}

	query := `
	SELECT id, action_type, payload, timestamp, status, retries, max_retries, error, completed_at
	FROM queued_actions
	WHERE status = $1
	ORDER BY timestamp, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, string(domain.ActionPending))
	if err != nil {
		return nil, fmt.Errorf("list pending actions: query: %w", err)
	}
	defer rows.Close()

	actions := make([]domain.QueuedAction, 0, 16)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("list pending actions: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending actions: row iteration: %w", err)
	}

	return actions, nil
}

func (s *SQLActionStore) Update(ctx context.Context, a domain.QueuedAction) (err error) {
	defer obs.Time(ctx, "action_store.Update")(&err)

	if s.DB == nil {
		return errors.New("action store: DB is nil")
	}

	query := `
	UPDATE queued_actions
	SET status = $1, retries = $2, error = $3, completed_at = $4
	WHERE id = $5;
	`
	res, err := s.DB.ExecContext(ctx, query,
		string(a.Status), a.Retries, a.Error, a.CompletedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update action %d: %w", a.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update action %d: rows affected: %w", a.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update action %d: no such entry", a.ID)
	}

	return nil
}

func (s *SQLActionStore) Delete(ctx context.Context, id int64) (err error) {
	defer obs.Time(ctx, "action_store.Delete")(&err)

	if s.DB == nil {
		return errors.New("action store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM queued_actions WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("delete action %d: %w", id, err)
	}

	return nil
}

func (s *SQLActionStore) PurgeOlderThan(ctx context.Context, cutoff int64) (_ int64, err error) {
	defer obs.Time(ctx, "action_store.PurgeOlderThan")(&err)

	if s.DB == nil {
		return 0, errors.New("action store: DB is nil")
	}

	query := `
	DELETE FROM queued_actions
	WHERE status = ANY($1::text[]) AND timestamp < $2;
	`
	res, err := s.DB.ExecContext(ctx, query,
		[]string{string(domain.ActionCompleted), string(domain.ActionFailed)}, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge actions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge actions: rows affected: %w", err)
	}

	return n, nil
}
