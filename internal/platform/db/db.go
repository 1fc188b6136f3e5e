// Package db opens the shared Postgres database used when the dispatch
// queue runs server-side instead of on a field device.
package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects via the pgx database/sql driver and verifies the
// connection before returning. Pool limits suit the queue workload:
// sync passes are serialized, so a handful of connections covers
// enqueues arriving from the HTTP surface.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("open postgres: verify connection: %w", err)
	}

	return conn, nil
}
