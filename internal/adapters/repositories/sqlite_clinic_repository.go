package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lab-dispatch-service/internal/domain"
)

// SQLite-backed implementation of the ClinicRepository port.
type SqliteClinicRepository struct{ DB *sql.DB }

func NewSqliteClinicRepository(db *sql.DB) *SqliteClinicRepository {
	return &SqliteClinicRepository{DB: db}
}

func (s *SqliteClinicRepository) GetClinic(ctx context.Context, id string) (*domain.Clinic, error) {
	if s.DB == nil {
		return nil, errors.New("clinic repository: DB is nil")
	}

	query := `
	SELECT clinic_id, name, lat, lng, operating_hours
	FROM clinics
	WHERE clinic_id = ?;
	`
	row := s.DB.QueryRowContext(ctx, query, id)

	c, err := scanClinic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get clinic: no clinic with id %q", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get clinic %q: %w", id, err)
	}

	return c, nil
}

func (s *SqliteClinicRepository) ListClinics(ctx context.Context) ([]*domain.Clinic, error) {
	if s.DB == nil {
		return nil, errors.New("clinic repository: DB is nil")
	}

	query := `
	SELECT clinic_id, name, lat, lng, operating_hours
	FROM clinics
	ORDER BY clinic_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clinics: query: %w", err)
	}
	defer rows.Close()

	clinics := make([]*domain.Clinic, 0, 32)
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("list clinics: %w", err)
		}
		clinics = append(clinics, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clinics: row iteration: %w", err)
	}

	return clinics, nil
}

func scanClinic(rs rowScanner) (*domain.Clinic, error) {
	var (
		c        domain.Clinic
		rawHours string
	)

	if err := rs.Scan(&c.ID, &c.Name, &c.Coordinates.Lat, &c.Coordinates.Lng, &rawHours); err != nil {
		return nil, err
	}

	var byDay map[string][]domain.OpenRange
	if err := json.Unmarshal([]byte(rawHours), &byDay); err != nil {
		return nil, fmt.Errorf("parse operating hours: %w", err)
	}

	hours, err := domain.ParseOperatingHours(byDay)
	if err != nil {
		return nil, err
	}
	c.Hours = hours

	return &c, nil
}
