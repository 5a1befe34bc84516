package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			bank VARCHAR(255),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS credit_cards (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			bank VARCHAR(255) NOT NULL,
			credit_limit NUMERIC(14,2) NOT NULL CHECK (credit_limit >= 0),
			current_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
			closing_day INTEGER NOT NULL CHECK (closing_day BETWEEN 1 AND 31),
			due_day INTEGER NOT NULL CHECK (due_day BETWEEN 1 AND 31),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			CHECK (current_balance >= 0 AND current_balance <= credit_limit)
		)`,

		`CREATE TABLE IF NOT EXISTS groups (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			owner_id UUID REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(owner_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS group_members (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			group_id UUID REFERENCES groups(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(50) DEFAULT 'member',
			joined_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(group_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS family_members (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(user_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS installments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			description VARCHAR(255) NOT NULL,
			total_amount NUMERIC(14,2) NOT NULL CHECK (total_amount > 0),
			installments INTEGER NOT NULL CHECK (installments >= 2),
			current_paid INTEGER NOT NULL DEFAULT 0,
			start_date DATE NOT NULL,
			payment_day INTEGER NOT NULL CHECK (payment_day BETWEEN 1 AND 31),
			category VARCHAR(100) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS recurring_expenses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			description VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			category VARCHAR(100) NOT NULL,
			account_id UUID REFERENCES accounts(id),
			day_of_month INTEGER NOT NULL CHECK (day_of_month BETWEEN 1 AND 31),
			active BOOLEAN DEFAULT TRUE,
			last_generated TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			description VARCHAR(255) NOT NULL,
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			type VARCHAR(20) NOT NULL,
			nature VARCHAR(20) NOT NULL DEFAULT 'variable',
			category VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'paid',
			date TIMESTAMP NOT NULL,
			account_id UUID REFERENCES accounts(id),
			credit_card_id UUID REFERENCES credit_cards(id),
			group_id UUID REFERENCES groups(id) ON DELETE SET NULL,
			paid_by VARCHAR(255),
			ai_category VARCHAR(100),
			ai_explanation TEXT,
			ai_confidence NUMERIC(5,4),
			installment_plan_id UUID REFERENCES installments(id) ON DELETE SET NULL,
			installment_current INTEGER,
			installment_total INTEGER,
			recurring_expense_id UUID REFERENCES recurring_expenses(id) ON DELETE SET NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS label_mappings (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			normalized_label VARCHAR(255) UNIQUE NOT NULL,
			category VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_cards_user_id ON credit_cards(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions(user_id, category)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_credit_card_id ON transactions(credit_card_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_group_date ON transactions(group_id, date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_expenses_user_id ON recurring_expenses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_installments_user_id ON installments(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
