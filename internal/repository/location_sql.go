package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	"location-cache-api/internal/model"
)

// dialect captures the differences between the SQL engines we support.
type dialect struct {
	name string
	// placeholder returns the bind marker for the n-th (1-based) argument.
	placeholder func(n int) string
	schema      []string
	// returningID is true when inserts report the new ID via RETURNING.
	returningID bool
	// afterSeed runs once the reference rows have been inserted.
	afterSeed []string
}

func questionMark(int) string { return "?" }

func dollarN(n int) string { return fmt.Sprintf("$%d", n) }

// SQLLocationRepository implements LocationRepository on database/sql.
// The concrete engine is chosen by the constructor.
type SQLLocationRepository struct {
	db      *sql.DB
	dialect dialect

	// serialize is set for engines with a single writer (SQLite).
	serialize bool
	mu        sync.RWMutex
}

func newSQLLocationRepository(db *sql.DB, d dialect) (*SQLLocationRepository, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return &SQLLocationRepository{db: db, dialect: d}, nil
}

// bind rewrites '?' markers into the dialect's placeholder syntax.
func (r *SQLLocationRepository) bind(query string) string {
	if r.dialect.placeholder == nil {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString(r.dialect.placeholder(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLLocationRepository) rlock() func() {
	if !r.serialize {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

func (r *SQLLocationRepository) lock() func() {
	if !r.serialize {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

// ListCountries returns every country ordered by ID.
func (r *SQLLocationRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	defer r.rlock()()

	rows, err := r.db.QueryContext(ctx, `SELECT country_id, name FROM countries ORDER BY country_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	countries := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// ListStates returns the states of one country ordered by ID.
func (r *SQLLocationRepository) ListStates(ctx context.Context, countryID int64) ([]model.State, error) {
	defer r.rlock()()

	query := r.bind(`SELECT state_id, name, country_id FROM states WHERE country_id = ? ORDER BY state_id`)
	rows, err := r.db.QueryContext(ctx, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list states for country %d: %w", countryID, err)
	}
	defer rows.Close()

	states := []model.State{}
	for rows.Next() {
		var s model.State
		if err := rows.Scan(&s.ID, &s.Name, &s.CountryID); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list states for country %d: %w", countryID, err)
	}
	return states, nil
}

// ListCities returns the cities of one state ordered by ID.
func (r *SQLLocationRepository) ListCities(ctx context.Context, stateID int64) ([]model.City, error) {
	defer r.rlock()()

	query := r.bind(`SELECT city_id, name, state_id FROM cities WHERE state_id = ? ORDER BY city_id`)
	rows, err := r.db.QueryContext(ctx, query, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities for state %d: %w", stateID, err)
	}
	defer rows.Close()

	cities := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.StateID); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cities for state %d: %w", stateID, err)
	}
	return cities, nil
}

// AddCountry inserts a country and sets its ID.
func (r *SQLLocationRepository) AddCountry(ctx context.Context, country *model.Country) error {
	defer r.lock()()

	if r.dialect.returningID {
		query := r.bind(`INSERT INTO countries (name) VALUES (?) RETURNING country_id`)
		if err := r.db.QueryRowContext(ctx, query, country.Name).Scan(&country.ID); err != nil {
			return fmt.Errorf("failed to add country: %w", err)
		}
		return nil
	}

	result, err := r.db.ExecContext(ctx, r.bind(`INSERT INTO countries (name) VALUES (?)`), country.Name)
	if err != nil {
		return fmt.Errorf("failed to add country: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read country id: %w", err)
	}
	country.ID = id
	return nil
}

// UpdateCountry renames an existing country.
func (r *SQLLocationRepository) UpdateCountry(ctx context.Context, country model.Country) error {
	defer r.lock()()

	query := r.bind(`UPDATE countries SET name = ? WHERE country_id = ?`)
	result, err := r.db.ExecContext(ctx, query, country.Name, country.ID)
	if err != nil {
		return fmt.Errorf("failed to update country %d: %w", country.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update country %d: %w", country.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("country %d: %w", country.ID, ErrNotFound)
	}
	return nil
}

// Seed loads the reference locations when the countries table is empty.
func (r *SQLLocationRepository) Seed(ctx context.Context) error {
	defer r.lock()()

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range seedCountries {
		if _, err := tx.ExecContext(ctx, r.bind(`INSERT INTO countries (country_id, name) VALUES (?, ?)`), c.ID, c.Name); err != nil {
			return fmt.Errorf("failed to seed country %q: %w", c.Name, err)
		}
	}
	for _, s := range seedStates {
		if _, err := tx.ExecContext(ctx, r.bind(`INSERT INTO states (state_id, name, country_id) VALUES (?, ?, ?)`), s.ID, s.Name, s.CountryID); err != nil {
			return fmt.Errorf("failed to seed state %q: %w", s.Name, err)
		}
	}
	for _, c := range seedCities {
		if _, err := tx.ExecContext(ctx, r.bind(`INSERT INTO cities (city_id, name, state_id) VALUES (?, ?, ?)`), c.ID, c.Name, c.StateID); err != nil {
			return fmt.Errorf("failed to seed city %q: %w", c.Name, err)
		}
	}
	for _, stmt := range r.dialect.afterSeed {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to finish seeding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("[%sLocationRepository] Seeded %d countries, %d states, %d cities",
		r.dialect.name, len(seedCountries), len(seedStates), len(seedCities))
	return nil
}

// GetStats returns row counts per table.
func (r *SQLLocationRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	defer r.rlock()()

	stats := map[string]interface{}{
		"engine": r.dialect.name,
	}
	for _, table := range []string{"countries", "states", "cities"} {
		var count int64
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats["total_"+table] = count
	}
	return stats, nil
}

// Close closes the database connection.
func (r *SQLLocationRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLLocationRepository implements LocationRepository
var _ LocationRepository = (*SQLLocationRepository)(nil)
