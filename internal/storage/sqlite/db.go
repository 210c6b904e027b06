// Package sqlite stores customers, events and tickets in a go-sqlite3
// database. It implements the same repository contracts as the postgres
// package and is what the test suite runs against by default.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens the database at path with foreign key enforcement switched on.
// Transactions begin IMMEDIATE, taking the write lock up front, so a
// read-then-write transaction cannot race another connection's writer.
// The pool is limited to one connection: an in-memory database exists only
// on the connection that created it, and SQLite serialises writers anyway.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}
