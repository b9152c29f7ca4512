package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLite has no exact decimal type: money columns use TEXT affinity so the
// decimal string written is the decimal string read back.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS quotations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            client_name TEXT NOT NULL,
            reference_number TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'draft'
                CHECK (status IN ('draft', 'pending', 'approved', 'rejected', 'expired')),
            title TEXT NOT NULL,
            description TEXT,
            buy_price TEXT NOT NULL,
            sale_price TEXT NOT NULL,
            margin TEXT NOT NULL,
            profit TEXT NOT NULL,
            cost_basis TEXT NOT NULL,
            markup_percentage TEXT NOT NULL,
            internal_notes TEXT,
            risk_level TEXT NOT NULL DEFAULT 'medium'
                CHECK (risk_level IN ('low', 'medium', 'high')),
            confidentiality_level TEXT NOT NULL DEFAULT 'restricted'
                CHECK (confidentiality_level IN ('restricted', 'confidential', 'top_secret')),
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL,
            expires_at DATETIME
        );`,
}

var postgresSchema = []string{
	`DO $$ BEGIN
            CREATE TYPE quotation_status AS ENUM ('draft', 'pending', 'approved', 'rejected', 'expired');
        EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	`DO $$ BEGIN
            CREATE TYPE risk_level AS ENUM ('low', 'medium', 'high');
        EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	`DO $$ BEGIN
            CREATE TYPE confidentiality_level AS ENUM ('restricted', 'confidential', 'top_secret');
        EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	`CREATE TABLE IF NOT EXISTS quotations (
            id BIGSERIAL PRIMARY KEY,
            client_name TEXT NOT NULL,
            reference_number TEXT NOT NULL,
            status quotation_status NOT NULL DEFAULT 'draft',
            title TEXT NOT NULL,
            description TEXT,
            buy_price NUMERIC(15, 4) NOT NULL,
            sale_price NUMERIC(15, 4) NOT NULL,
            margin NUMERIC(15, 4) NOT NULL,
            profit NUMERIC(15, 4) NOT NULL,
            cost_basis NUMERIC(15, 4) NOT NULL,
            markup_percentage NUMERIC(5, 2) NOT NULL,
            internal_notes TEXT,
            risk_level risk_level NOT NULL DEFAULT 'medium',
            confidentiality_level confidentiality_level NOT NULL DEFAULT 'restricted',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            expires_at TIMESTAMPTZ
        );`,
}

// Migrate creates the quotations schema for the connected driver.
func Migrate(db *sqlx.DB) error {
	var schema []string
	switch db.DriverName() {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
