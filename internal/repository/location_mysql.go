package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name: "MySQL",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS countries (
			country_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS states (
			state_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			country_id BIGINT NOT NULL,
			INDEX idx_states_country (country_id),
			FOREIGN KEY (country_id) REFERENCES countries(country_id)
		)`,
		`CREATE TABLE IF NOT EXISTS cities (
			city_id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			state_id BIGINT NOT NULL,
			INDEX idx_cities_state (state_id),
			FOREIGN KEY (state_id) REFERENCES states(state_id)
		)`,
	},
}

// NewMySQLLocationRepository connects to MySQL and prepares the location tables.
// The DSN should set clientFoundRows=true so updates that change nothing
// still count the matched row.
func NewMySQLLocationRepository(dsn string) (*SQLLocationRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	repo, err := newSQLLocationRepository(db, mysqlDialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[MySQLLocationRepository] Initialized with pool: max=%d, idle=%d", 10, 5)
	return repo, nil
}
