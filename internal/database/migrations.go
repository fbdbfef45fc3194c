package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id SERIAL PRIMARY KEY,
			amount DECIMAL(12, 2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'EUR',
			description TEXT,
			category TEXT,
			paid_by TEXT NOT NULL,
			shared_with TEXT[] NOT NULL DEFAULT '{}',
			tax_relevant BOOLEAN NOT NULL DEFAULT FALSE,
			recurring BOOLEAN NOT NULL DEFAULT FALSE,
			spent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS incomes (
			id SERIAL PRIMARY KEY,
			product TEXT NOT NULL,
			customer_country TEXT NOT NULL,
			sale_price DECIMAL(12, 2) NOT NULL,
			cost_price DECIMAL(12, 2) NOT NULL DEFAULT 0,
			quantity BIGINT NOT NULL DEFAULT 1,
			ad_spend DECIMAL(12, 2) NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'EUR',
			vat_rate DECIMAL(6, 4) NOT NULL,
			sold_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			from_participant TEXT NOT NULL,
			to_participant TEXT NOT NULL,
			amount DECIMAL(12, 2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'EUR',
			paid_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_expenses_spent_at ON expenses(spent_at)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_paid_by ON expenses(paid_by)`,
		`CREATE INDEX IF NOT EXISTS idx_incomes_sold_at ON incomes(sold_at)`,
		`CREATE INDEX IF NOT EXISTS idx_incomes_customer_country ON incomes(customer_country)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_paid_at ON payments(paid_at)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
