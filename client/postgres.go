package client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// OpenPostgres prepares the pool used by the database check. No connection is
// made here; a database that is down at startup is reported by the check.
func OpenPostgres(uri string) (*sql.DB, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// The check only ever pings, keep the pool small.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	return db, nil
}
