package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lab-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the ActionStore port: the durable
// device-local queue. Single-statement inserts/updates give the
// per-record atomicity the queue relies on.
type SqliteActionStore struct{ DB *sql.DB }

func NewSqliteActionStore(db *sql.DB) *SqliteActionStore {
	return &SqliteActionStore{DB: db}
}

func (s *SqliteActionStore) Append(ctx context.Context, a domain.QueuedAction) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("action store: DB is nil")
	}

	payload := a.Payload
	if payload == nil {
		payload = json.RawMessage("null")
	}

	query := `
	INSERT INTO queued_actions (
		action_type,
		payload,
		timestamp,
		status,
		retries,
		max_retries,
		error
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query,
		a.ActionType,
		string(payload),
		a.Timestamp,
		string(a.Status),
		a.Retries,
		a.MaxRetries,
		a.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("append action: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append action: last insert id: %w", err)
	}

	return id, nil
}

func (s *SqliteActionStore) ListPending(ctx context.Context) ([]domain.QueuedAction, error) {
	if s.DB == nil {
		return nil, errors.New("action store: DB is nil")
	}

	query := `
	SELECT
		id,
		action_type,
		payload,
		timestamp,
		status,
		retries,
		max_retries,
		error,
		completed_at
	FROM queued_actions
	WHERE status = ?
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

func (s *SqliteActionStore) Update(ctx context.Context, a domain.QueuedAction) error {
	if s.DB == nil {
		return errors.New("action store: DB is nil")
	}

	query := `
	UPDATE queued_actions
	SET status = ?, retries = ?, error = ?, completed_at = ?
	WHERE id = ?;
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

func (s *SqliteActionStore) Delete(ctx context.Context, id int64) error {
	if s.DB == nil {
		return errors.New("action store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM queued_actions WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete action %d: %w", id, err)
	}

	return nil
}

func (s *SqliteActionStore) PurgeOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("action store: DB is nil")
	}

	// Pending entries are exempt from age-based purge regardless of age.
	query := `
	DELETE FROM queued_actions
	WHERE status IN (?, ?) AND timestamp < ?;
	`
	res, err := s.DB.ExecContext(ctx, query,
		string(domain.ActionCompleted), string(domain.ActionFailed), cutoff,
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(rs rowScanner) (domain.QueuedAction, error) {
	var (
		a           domain.QueuedAction
		payload     string
		status      string
		completedAt sql.NullInt64
	)

	err := rs.Scan(
		&a.ID, &a.ActionType, &payload, &a.Timestamp,
		&status, &a.Retries, &a.MaxRetries, &a.Error, &completedAt,
	)
	if err != nil {
		return domain.QueuedAction{}, fmt.Errorf("scan row: %w", err)
	}

	a.Payload = json.RawMessage(payload)
	a.Status = domain.ActionStatus(status)
	if completedAt.Valid {
		v := completedAt.Int64
		a.CompletedAt = &v
	}

	return a, nil
}
