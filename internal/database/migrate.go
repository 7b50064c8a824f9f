package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		barcode TEXT UNIQUE,
		name TEXT NOT NULL,
		price_cents BIGINT NOT NULL,
		cost_cents BIGINT NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		min_stock INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		credit_limit_cents BIGINT NOT NULL DEFAULT 0,
		credit_balance_cents BIGINT NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		direction TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		reason TEXT NOT NULL,
		note TEXT,
		quantity_before INTEGER NOT NULL,
		quantity_after INTEGER NOT NULL,
		reference_type TEXT,
		reference_id TEXT,
		actor_id TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created
		ON stock_movements (product_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_created
		ON stock_movements (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS credit_transactions (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		type TEXT NOT NULL,
		amount_cents BIGINT NOT NULL,
		balance_after_cents BIGINT NOT NULL,
		sale_id TEXT,
		reference TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_credit_transactions_customer_created
		ON credit_transactions (customer_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		receipt_number TEXT NOT NULL UNIQUE,
		subtotal_cents BIGINT NOT NULL,
		discount_cents BIGINT NOT NULL DEFAULT 0,
		total_cents BIGINT NOT NULL,
		payment_method TEXT NOT NULL,
		amount_paid_cents BIGINT NOT NULL DEFAULT 0,
		change_cents BIGINT NOT NULL DEFAULT 0,
		customer_id TEXT REFERENCES customers(id),
		cashier_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created ON sales (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL REFERENCES sales(id),
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price_cents BIGINT NOT NULL,
		discount_cents BIGINT NOT NULL DEFAULT 0,
		subtotal_cents BIGINT NOT NULL,
		UNIQUE (sale_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS receipt_counters (
		day TEXT PRIMARY KEY,
		last_seq BIGINT NOT NULL DEFAULT 0
	)`,
}

// Migrate creates the schema. Statements are idempotent so this runs on
// every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
