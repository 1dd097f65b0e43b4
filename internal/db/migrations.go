package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(32) PRIMARY KEY,
		order_type VARCHAR(32) NOT NULL,
		customer_id VARCHAR(64) REFERENCES customers(id) ON DELETE RESTRICT,
		customer_name VARCHAR(255) NOT NULL,
		customer_contact VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		priority VARCHAR(16) NOT NULL DEFAULT 'Média',
		payment_status VARCHAR(32) NOT NULL DEFAULT 'Aguardando',
		estimated_value NUMERIC(12,2) NOT NULL CHECK (estimated_value > 0),
		final_value NUMERIC(12,2) CHECK (final_value IS NULL OR final_value >= 0),
		status VARCHAR(64) NOT NULL,
		open_date DATE NOT NULL,
		expected_completion_date DATE,
		device_model VARCHAR(255) NOT NULL DEFAULT '',
		imei VARCHAR(15) NOT NULL DEFAULT '',
		problem_description TEXT NOT NULL DEFAULT '',
		technical_diagnosis TEXT NOT NULL DEFAULT '',
		required_parts TEXT NOT NULL DEFAULT '',
		product_sold VARCHAR(255) NOT NULL DEFAULT '',
		product_condition VARCHAR(16) NOT NULL DEFAULT '',
		internal_notes TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS order_sequences (
		order_type VARCHAR(32) PRIMARY KEY,
		last_value BIGINT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id) WHERE customer_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_orders_type_status ON orders (order_type, status);`,
	`CREATE INDEX IF NOT EXISTS idx_orders_open_date ON orders (open_date);`,
}

// syncSequencesStatement raises each counter to the highest id suffix already
// stored, so rows loaded outside NextSequence are never issued again.
const syncSequencesStatement = `
	INSERT INTO order_sequences (order_type, last_value)
	SELECT order_type, MAX(CAST(split_part(id, '-', 2) AS BIGINT))
	FROM orders
	WHERE split_part(id, '-', 2) ~ '^[0-9]+$'
	GROUP BY order_type
	ON CONFLICT (order_type) DO UPDATE
		SET last_value = GREATEST(order_sequences.last_value, EXCLUDED.last_value);`

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return SyncSequences(db)
}

func SyncSequences(db *gorm.DB) error {
	if err := db.Exec(syncSequencesStatement).Error; err != nil {
		return fmt.Errorf("sync order sequences: %w", err)
	}
	return nil
}
