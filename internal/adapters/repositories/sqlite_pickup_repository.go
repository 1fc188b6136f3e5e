package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lab-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the PickupRepository port.
type SqlitePickupRepository struct{ DB *sql.DB }

func NewSqlitePickupRepository(db *sql.DB) *SqlitePickupRepository {
	return &SqlitePickupRepository{DB: db}
}

func (s *SqlitePickupRepository) ListPickupRequests(ctx context.Context) ([]*domain.PickupRequest, error) {
	if s.DB == nil {
		return nil, errors.New("pickup repository: DB is nil")
	}

	query := `
	SELECT pickup_id, clinic_id, lab_id, window_start, window_end, package_count, status
	FROM pickup_requests
	ORDER BY window_start, pickup_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pickup requests: query: %w", err)
	}
	defer rows.Close()

	pickups := make([]*domain.PickupRequest, 0, 32)
	for rows.Next() {
		var (
			p          domain.PickupRequest
			start, end int64
			status     string
		)
		err := rows.Scan(&p.ID, &p.ClinicID, &p.LabID, &start, &end, &p.PackageCount, &status)
		if err != nil {
			return nil, fmt.Errorf("list pickup requests: scan row: %w", err)
		}

		p.Window = domain.TimeWindow{
			Start: time.UnixMilli(start),
			End:   time.UnixMilli(end),
		}
		p.Status = domain.Status(status)
		pickups = append(pickups, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pickup requests: row iteration: %w", err)
	}

	return pickups, nil
}

func (s *SqlitePickupRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if s.DB == nil {
		return errors.New("pickup repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE pickup_requests SET status = ? WHERE pickup_id = ?;`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update pickup %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pickup %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update pickup %q: no such request", id)
	}

	return nil
}
