package repository

import (
	"context"
	"errors"

	"location-cache-api/internal/model"
)

// ErrNotFound is returned when a mutation targets a row that does not exist.
var ErrNotFound = errors.New("record not found")

// LocationRepository defines the backing store for the location hierarchy.
type LocationRepository interface {
	// ListCountries returns every country ordered by ID.
	ListCountries(ctx context.Context) ([]model.Country, error)

	// ListStates returns the states of one country ordered by ID.
	ListStates(ctx context.Context, countryID int64) ([]model.State, error)

	// ListCities returns the cities of one state ordered by ID.
	ListCities(ctx context.Context, stateID int64) ([]model.City, error)

	// AddCountry inserts a country and sets its ID.
	AddCountry(ctx context.Context, country *model.Country) error

	// UpdateCountry renames an existing country. Returns ErrNotFound for an unknown ID.
	UpdateCountry(ctx context.Context, country model.Country) error

	// Seed loads the reference locations when the store is empty.
	Seed(ctx context.Context) error

	// GetStats returns statistics about the location database.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
