// Package database provides database connection and migration management.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open opens a PostgreSQL connection pool for the given URL. sql.Open
// does not connect; call db.Ping to verify the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
