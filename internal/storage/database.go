// internal/storage/database.go
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

const createUserTableSQL = `
CREATE TABLE IF NOT EXISTS user (
	id VARCHAR(36) PRIMARY KEY NOT NULL,
	username VARCHAR(64) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	role_id INTEGER
);`

const createDomainTableSQL = `
CREATE TABLE IF NOT EXISTS domain (
	id VARCHAR(36) PRIMARY KEY NOT NULL,
	domain_name VARCHAR(255) NOT NULL UNIQUE,
	domain_status VARCHAR(255),
	domain_age INTEGER,
	order_no INTEGER,
	language VARCHAR(255),
	title VARCHAR(255),
	score INTEGER,
	dns VARCHAR(255),
	registrar_name VARCHAR(255),
	registrar_address VARCHAR(255),
	registrar_by VARCHAR(255),
	registrar_at DATETIME,
	expire_at DATETIME,
	email VARCHAR(255),
	record_name VARCHAR(255),
	record_no VARCHAR(255),
	record_status VARCHAR(255),
	record_at DATETIME,
	record_main_body VARCHAR(255),
	record_type VARCHAR(255)
);`

// ConnectDB opens the SQLite store named by the configuration and ensures the
// 'user' and 'domain' tables exist.
func ConnectDB(cfg *config.Config) (*sqlx.DB, error) {
	dbPath := filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile)
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	if err := os.MkdirAll(cfg.DatabaseDir, 0750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.DatabaseDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// The import task writes while requests are served, so wait on locks instead of failing fast.
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	if err = EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the user and domain tables when they are missing.
// Running it against an initialized store changes nothing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createUserTableSQL); err != nil {
		customLog.Warnf("Storage: Failed to create user table: %v", err)
		return fmt.Errorf("failed to ensure user table: %w", err)
	}
	customLog.Debugln("Storage: User table ensured.")

	if _, err := db.ExecContext(ctx, createDomainTableSQL); err != nil {
		customLog.Warnf("Storage: Failed to create domain table: %v", err)
		return fmt.Errorf("failed to ensure domain table: %w", err)
	}
	customLog.Debugln("Storage: Domain table ensured.")

	return nil
}
