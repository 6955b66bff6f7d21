package postgres

import (
	"context"
	"fmt"
)

// schema crea las tablas si no existen. Importes en NUMERIC(12,2); al borrar un
// cliente sus facturas y pagos caen en cascada.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL UNIQUE,
		vehicle    TEXT NOT NULL DEFAULT '',
		credit     NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id          BIGINT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		items       JSONB NOT NULL DEFAULT '[]',
		subtotal    NUMERIC(12,2) NOT NULL,
		discount    NUMERIC(12,2) NOT NULL DEFAULT 0,
		total       NUMERIC(12,2) NOT NULL,
		paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		credit      NUMERIC(12,2) NOT NULL DEFAULT 0,
		excess      NUMERIC(12,2) NOT NULL DEFAULT 0,
		date        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_customer ON bills(customer_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id          TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		amount      NUMERIC(12,2) NOT NULL,
		date        DATE NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_customer ON payments(customer_id)`,
}

// EnsureSchema aplica el esquema (idempotente).
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
