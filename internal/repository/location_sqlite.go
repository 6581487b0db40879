package repository

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

var sqliteDialect = dialect{
	name: "SQLite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS countries (
			country_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS states (
			state_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			country_id INTEGER NOT NULL REFERENCES countries(country_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_states_country ON states(country_id)`,
		`CREATE TABLE IF NOT EXISTS cities (
			city_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			state_id INTEGER NOT NULL REFERENCES states(state_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cities_state ON cities(state_id)`,
	},
}

// NewSQLiteLocationRepository opens (or creates) a SQLite location database.
// dbPath is the path to the database file (e.g., "./data/locations.db").
func NewSQLiteLocationRepository(dbPath string) (*SQLLocationRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	repo, err := newSQLLocationRepository(db, sqliteDialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	repo.serialize = true

	log.Printf("[SQLiteLocationRepository] Initialized with database: %s", dbPath)
	return repo, nil
}
