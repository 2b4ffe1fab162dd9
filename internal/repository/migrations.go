package repository

import "fmt"

// Migrate creates the finance schema and its tables when they do not exist
func (r *Repository) Migrate() error {
	schema := `
	CREATE SCHEMA IF NOT EXISTS finance;

	CREATE TABLE IF NOT EXISTS finance.expenses (
		id UUID PRIMARY KEY,
		amount NUMERIC(14,2) NOT NULL,
		currency CHAR(3) NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS finance.incomes (
		id UUID PRIMARY KEY,
		amount NUMERIC(14,2) NOT NULL,
		currency CHAR(3) NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		recurrence TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS finance.participants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS finance.split_bills (
		id UUID PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC(14,2) NOT NULL,
		currency CHAR(3) NOT NULL,
		paid_by UUID NOT NULL,
		participants UUID[] NOT NULL,
		split_type TEXT NOT NULL,
		custom_amounts JSONB,
		settled BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS finance.budget_plans (
		month CHAR(7) PRIMARY KEY,
		currency CHAR(3) NOT NULL,
		total_income NUMERIC(14,2) NOT NULL,
		buckets JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_date ON finance.expenses(date);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON finance.expenses(category);
	CREATE INDEX IF NOT EXISTS idx_incomes_status_date ON finance.incomes(status, date);
	CREATE INDEX IF NOT EXISTS idx_split_bills_settled ON finance.split_bills(settled);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
