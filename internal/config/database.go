package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create user profiles table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'viewer',
			can_create BOOLEAN NOT NULL DEFAULT FALSE,
			can_edit BOOLEAN NOT NULL DEFAULT FALSE,
			can_delete BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create categories table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			code VARCHAR(50) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL,
			nature VARCHAR(100) NOT NULL DEFAULT '',
			subgroup VARCHAR(100) NOT NULL DEFAULT '',
			cost_center VARCHAR(100) NOT NULL DEFAULT '',
			required_fields TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create payment records table. The CHECK keeps the export fields in
	// lockstep: exported is true iff both the timestamp and batch id are set.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS payment_records (
			id SERIAL PRIMARY KEY,
			paid_at TIMESTAMPTZ NOT NULL,
			payee VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			currency VARCHAR(10) NOT NULL,
			payment_method VARCHAR(100) NOT NULL DEFAULT '',
			bank_account VARCHAR(100),
			document_type VARCHAR(20),
			tax_id VARCHAR(20),
			document_number VARCHAR(50),
			description TEXT,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			dynamic_fields JSONB NOT NULL DEFAULT '{}',
			attachments TEXT[] NOT NULL DEFAULT '{}',
			created_by VARCHAR(36) NOT NULL REFERENCES user_profiles(id),
			created_at TIMESTAMPTZ NOT NULL,
			exported BOOLEAN NOT NULL DEFAULT FALSE,
			exported_at TIMESTAMPTZ,
			export_batch_id BIGINT,
			CHECK (
				(exported AND exported_at IS NOT NULL AND export_batch_id IS NOT NULL)
				OR (NOT exported AND exported_at IS NULL AND export_batch_id IS NULL)
			)
		)
	`)
	if err != nil {
		return err
	}

	// Create trailer services table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trailer_services (
			id SERIAL PRIMARY KEY,
			service_date DATE NOT NULL,
			plate VARCHAR(20) NOT NULL DEFAULT '',
			client VARCHAR(255) NOT NULL DEFAULT '',
			service_type VARCHAR(100) NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL DEFAULT 'POR COORDINAR',
			invoice_status VARCHAR(50) NOT NULL DEFAULT 'PENDIENTE',
			notes TEXT,
			created_by VARCHAR(36) NOT NULL REFERENCES user_profiles(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create system updates table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS system_updates (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			version VARCHAR(50),
			category VARCHAR(20) NOT NULL DEFAULT 'general',
			created_by VARCHAR(36) REFERENCES user_profiles(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Index for the export read step (pending records in payment order)
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payment_records_pending
		ON payment_records (paid_at) WHERE NOT exported
	`)
	return err
}
