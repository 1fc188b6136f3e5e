package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"lab-dispatch-service/internal/domain"
)

// Initialize the SQLite database schema for the device-local store.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createActionsQuery := `
	CREATE TABLE IF NOT EXISTS queued_actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		retries INTEGER NOT NULL DEFAULT 0,
		max_retries INTEGER NOT NULL DEFAULT 3,
		error TEXT NOT NULL DEFAULT '',
		completed_at INTEGER
	);
	`

	createActionsIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_queued_actions_status_timestamp
	ON queued_actions(status, timestamp);
	`

	createClinicsQuery := `
	CREATE TABLE IF NOT EXISTS clinics (
		clinic_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		operating_hours TEXT NOT NULL
	);
	`

	createPickupsQuery := `
	CREATE TABLE IF NOT EXISTS pickup_requests (
		pickup_id TEXT PRIMARY KEY,
		clinic_id TEXT NOT NULL,
		lab_id TEXT NOT NULL,
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		package_count INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	`

	statements := []string{
		createActionsQuery,
		createActionsIndexQuery,
		createClinicsQuery,
		createPickupsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ClinicSeed struct {
	ClinicID       string                        `json:"clinic_id"`
	Name           string                        `json:"name"`
	Lat            float64                       `json:"lat"`
	Lng            float64                       `json:"lng"`
	OperatingHours map[string][]domain.OpenRange `json:"operating_hours"`
}

type PickupSeed struct {
	PickupID     string    `json:"pickup_id"`
	ClinicID     string    `json:"clinic_id"`
	LabID        string    `json:"lab_id"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	PackageCount int       `json:"package_count"`
}

type Seed struct {
	Clinics        []ClinicSeed `json:"clinics"`
	PickupRequests []PickupSeed `json:"pickup_requests"`
}

// Populate the database with clinic and pickup data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed dispatch data: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed dispatch data: parse json: %w", err)
	}

	for i, c := range seed.Clinics {
		if strings.TrimSpace(c.ClinicID) == "" {
			return fmt.Errorf("seed dispatch data: clinic at index %d: clinic_id cannot be empty", i+1)
		}
		if err := (domain.Coordinates{Lat: c.Lat, Lng: c.Lng}).Validate(); err != nil {
			return fmt.Errorf("seed dispatch data: clinic %q: %w", c.ClinicID, err)
		}
		if _, err := domain.ParseOperatingHours(c.OperatingHours); err != nil {
			return fmt.Errorf("seed dispatch data: clinic %q: %w", c.ClinicID, err)
		}
	}

	for i, p := range seed.PickupRequests {
		if strings.TrimSpace(p.PickupID) == "" {
			return fmt.Errorf("seed dispatch data: pickup at index %d: pickup_id cannot be empty", i+1)
		}
		w := domain.TimeWindow{Start: p.WindowStart, End: p.WindowEnd}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("seed dispatch data: pickup %q: %w", p.PickupID, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed dispatch data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	clinicStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO clinics (
		clinic_id,
		name,
		lat,
		lng,
		operating_hours
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare clinic insert: %w", err)
	}
	defer clinicStmt.Close()

	for _, c := range seed.Clinics {
		hours, err := json.Marshal(c.OperatingHours)
		if err != nil {
			return fmt.Errorf("seed dispatch data: marshal hours for %q: %w", c.ClinicID, err)
		}
		if _, err := clinicStmt.Exec(c.ClinicID, c.Name, c.Lat, c.Lng, string(hours)); err != nil {
			return fmt.Errorf("seed dispatch data: insert clinic %q: %w", c.ClinicID, err)
		}
	}

	pickupStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO pickup_requests (
		pickup_id,
		clinic_id,
		lab_id,
		window_start,
		window_end,
		package_count,
		status
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed dispatch data: prepare pickup insert: %w", err)
	}
	defer pickupStmt.Close()

	for _, p := range seed.PickupRequests {
		_, err := pickupStmt.Exec(
			p.PickupID,
			p.ClinicID,
			p.LabID,
			p.WindowStart.UnixMilli(),
			p.WindowEnd.UnixMilli(),
			p.PackageCount,
			string(domain.StatusPending),
		)
		if err != nil {
			return fmt.Errorf("seed dispatch data: insert pickup %q: %w", p.PickupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed dispatch data: commit tx: %w", err)
	}

	return nil
}
