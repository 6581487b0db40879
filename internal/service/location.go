package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"location-cache-api/internal/cache"
	"location-cache-api/internal/model"
	"location-cache-api/internal/repository"
)

// CountriesKey is the cache key of the full country list.
const CountriesKey = "countries"

// StatesKey returns the cache key of the states of one country.
func StatesKey(countryID int64) string {
	return fmt.Sprintf("states:%d", countryID)
}

// CitiesKey returns the cache key of the cities of one state.
func CitiesKey(stateID int64) string {
	return fmt.Sprintf("cities:%d", stateID)
}

// LocationConfig holds the expiration windows of the timed tiers.
type LocationConfig struct {
	// StatesSlidingExpiration is the idle window after which a states entry expires.
	StatesSlidingExpiration time.Duration

	// CitiesAbsoluteExpiration is the lifetime of a cities entry from the moment it is written.
	CitiesAbsoluteExpiration time.Duration
}

// DefaultLocationConfig returns the default expiration windows.
func DefaultLocationConfig() LocationConfig {
	return LocationConfig{
		StatesSlidingExpiration:  30 * time.Minute,
		CitiesAbsoluteExpiration: 30 * time.Minute,
	}
}

// LocationService serves the location hierarchy through the cache.
// Countries never expire, states use a sliding window, cities an absolute one.
type LocationService struct {
	repo   repository.LocationRepository
	cache  *cache.Manager
	config LocationConfig
}

// NewLocationService creates a new location service.
func NewLocationService(repo repository.LocationRepository, manager *cache.Manager, config LocationConfig) *LocationService {
	defaults := DefaultLocationConfig()
	if config.StatesSlidingExpiration <= 0 {
		config.StatesSlidingExpiration = defaults.StatesSlidingExpiration
	}
	if config.CitiesAbsoluteExpiration <= 0 {
		config.CitiesAbsoluteExpiration = defaults.CitiesAbsoluteExpiration
	}

	return &LocationService{
		repo:   repo,
		cache:  manager,
		config: config,
	}
}

// GetCountries returns every country. The list is cached until a country
// is added or updated, or the cache is cleared.
func (s *LocationService) GetCountries(ctx context.Context) ([]model.Country, error) {
	opts := cache.NoExpiration(cache.PriorityHigh)
	return readThrough(s.cache, CountriesKey, opts, func() ([]model.Country, error) {
		return s.repo.ListCountries(ctx)
	})
}

// GetStates returns the states of one country. Each read within the
// sliding window keeps the entry alive.
func (s *LocationService) GetStates(ctx context.Context, countryID int64) ([]model.State, error) {
	opts := cache.SlidingExpiration(s.config.StatesSlidingExpiration, cache.PriorityNormal)
	return readThrough(s.cache, StatesKey(countryID), opts, func() ([]model.State, error) {
		return s.repo.ListStates(ctx, countryID)
	})
}

// GetCities returns the cities of one state. The entry expires a fixed
// time after it was loaded, however often it is read.
func (s *LocationService) GetCities(ctx context.Context, stateID int64) ([]model.City, error) {
	opts := cache.AbsoluteExpiration(s.config.CitiesAbsoluteExpiration, cache.PriorityLow)
	return readThrough(s.cache, CitiesKey(stateID), opts, func() ([]model.City, error) {
		return s.repo.ListCities(ctx, stateID)
	})
}

// AddCountry stores a new country and invalidates the cached country list.
// A failed invalidation is logged, not returned.
func (s *LocationService) AddCountry(ctx context.Context, country *model.Country) error {
	if err := s.repo.AddCountry(ctx, country); err != nil {
		return err
	}
	s.invalidateAfterWrite()
	return nil
}

// UpdateCountry renames a country and invalidates the cached country list.
func (s *LocationService) UpdateCountry(ctx context.Context, country model.Country) error {
	if err := s.repo.UpdateCountry(ctx, country); err != nil {
		return err
	}
	s.invalidateAfterWrite()
	return nil
}

// InvalidateCountries drops the cached country list.
func (s *LocationService) InvalidateCountries() error {
	if err := s.cache.Remove(CountriesKey); err != nil {
		return fmt.Errorf("failed to invalidate countries: %w", err)
	}
	return nil
}

// invalidateAfterWrite drops the country list once a write has committed.
// The write stands even if the cache refuses the delete.
func (s *LocationService) invalidateAfterWrite() {
	if err := s.InvalidateCountries(); err != nil {
		log.Printf("[LocationService] %v", err)
	}
}

// readThrough implements cache-aside for one key. The load runs without any
// lock held; concurrent misses may both load and both write.
func readThrough[T any](m *cache.Manager, key string, opts cache.EntryOptions, load func() ([]T, error)) ([]T, error) {
	if cached, ok := cache.GetJSON[[]T](m, key); ok {
		if cached == nil {
			cached = []T{}
		}
		return cached, nil
	}

	fresh, err := load()
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = []T{}
	}

	// Empty results are cached too.
	if err := cache.SetJSON(m, key, fresh, opts); err != nil {
		log.Printf("[LocationService] Failed to cache %q: %v", key, err)
	}

	return fresh, nil
}
