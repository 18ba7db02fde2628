// Copyright (c) 2026 Vaultmaster Team
// Vaultmaster - encrypted database credential management
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the data access layer for the Vaultmaster registry:
// which encrypted databases are managed, the digest of their current
// composite key, and the credential-management audit trail. It supports
// SQLite (default), PostgreSQL, and MySQL through Bun.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// store is the package-level store used by the convenience helpers below.
var store Store

// InitDB initializes the package-level store for the given backend and DSN.
func InitDB(dbType, dsn string) error {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	store = s
	return nil
}

// IsInitialized reports whether the package-level store has been set.
func IsInitialized() bool {
	return store != nil
}

// Get returns the package-level store. Callers must have run InitDB first.
func Get() Store {
	return store
}

// NewStoreFromDSN opens the given database and returns a bun-backed Store
// with migrations applied.
func NewStoreFromDSN(dbType, dsn string) (Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to it.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// For in-memory SQLite, force a single connection so the schema stays
	// visible: each SQLite connection gets its own in-memory database.
	if dbType == "sqlite" && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := runMigrations(sqlDB, dbType); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &bunStore{db: sqlDB, bun: createBunDB(sqlDB, dbType)}, nil
}

// createBunDB wraps the sql.DB with the dialect matching the backend.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// runMigrations creates the schema if it does not exist yet.
func runMigrations(sqlDB *sql.DB, dbType string) error {
	var idCol string
	switch dbType {
	case "postgres":
		idCol = "SERIAL PRIMARY KEY"
	case "mysql":
		idCol = "INT AUTO_INCREMENT PRIMARY KEY"
	default:
		idCol = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS databases (
			id %s,
			public_id VARCHAR(64) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL UNIQUE,
			path VARCHAR(1024),
			key_digest VARCHAR(64) NOT NULL,
			key_kinds VARCHAR(255) NOT NULL,
			modified_at TIMESTAMP
		)`, idCol),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS audit_log (
			id %s,
			timestamp VARCHAR(64) NOT NULL,
			database_name VARCHAR(255) NOT NULL,
			action VARCHAR(64) NOT NULL,
			details TEXT
		)`, idCol),
	}
	for _, stmt := range stmts {
		if _, err := sqlDB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
