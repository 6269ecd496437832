package sqlite

import "fmt"

// migrate creates the schema and seeds the service taxonomy. Every statement
// is idempotent, so it runs on each start.
func (db *DB) migrate() error {
	steps := []struct {
		name string
		sql  string
	}{
		{"users table", schemaUsers},
		{"taxonomy tables", schemaTaxonomy},
		{"provider_profiles table", schemaProviderProfiles},
		{"taxonomy seed", seedTaxonomy},
	}

	for _, step := range steps {
		if _, err := db.conn.Exec(step.sql); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// email uses NOCASE collation so the UNIQUE constraint and lookups ignore
// ASCII case.
const schemaUsers = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN ('customer', 'provider')),
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const schemaTaxonomy = `
	CREATE TABLE IF NOT EXISTS service_categories (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS service_subcategories (
		id          INTEGER PRIMARY KEY,
		category_id INTEGER NOT NULL REFERENCES service_categories(id),
		name        TEXT NOT NULL,
		UNIQUE (category_id, name)
	);
	CREATE INDEX IF NOT EXISTS idx_subcategories_category_id ON service_subcategories(category_id);
`

const schemaProviderProfiles = `
	CREATE TABLE IF NOT EXISTS provider_profiles (
		id                        INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id                   INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		years_of_experience       INTEGER CHECK (years_of_experience IS NULL OR years_of_experience >= 0),
		service_category_id       INTEGER NOT NULL REFERENCES service_categories(id),
		service_subcategory_id    INTEGER NOT NULL REFERENCES service_subcategories(id),
		service_description       TEXT,
		service_address           TEXT,
		working_days              TEXT,
		preferred_time            TEXT,
		service_charge            TEXT,
		consultation_included     INTEGER NOT NULL DEFAULT 0,
		followup_support_included INTEGER NOT NULL DEFAULT 0,
		warranty_included         INTEGER NOT NULL DEFAULT 0,
		contact_number            TEXT,
		created_at                DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const seedTaxonomy = `
	INSERT OR IGNORE INTO service_categories (id, name) VALUES
		(1, 'Home Repair'),
		(2, 'Cleaning'),
		(3, 'Electrical'),
		(4, 'Moving');

	INSERT OR IGNORE INTO service_subcategories (id, category_id, name) VALUES
		(1, 1, 'Plumbing'),
		(2, 1, 'Carpentry'),
		(3, 1, 'Painting'),
		(4, 1, 'Roofing'),
		(5, 1, 'Furniture Assembly'),
		(6, 2, 'Deep Cleaning'),
		(7, 2, 'Carpet Cleaning'),
		(8, 2, 'Window Cleaning'),
		(9, 3, 'Wiring'),
		(10, 3, 'Lighting Installation'),
		(11, 4, 'Local Moving'),
		(12, 4, 'Packing');
`
