package repository

import "location-cache-api/internal/model"

// Reference data loaded by Seed into an empty database.
var (
	seedCountries = []model.Country{
		{ID: 1, Name: "India"},
		{ID: 2, Name: "United States"},
		{ID: 3, Name: "Canada"},
		{ID: 4, Name: "United Kingdom"},
	}

	seedStates = []model.State{
		{ID: 1, Name: "California", CountryID: 2},
		{ID: 2, Name: "Texas", CountryID: 2},
		{ID: 3, Name: "British Columbia", CountryID: 3},
		{ID: 4, Name: "Ontario", CountryID: 3},
		{ID: 5, Name: "England", CountryID: 4},
		{ID: 6, Name: "Maharashtra", CountryID: 1},
		{ID: 7, Name: "Delhi", CountryID: 1},
	}

	seedCities = []model.City{
		{ID: 1, Name: "Los Angeles", StateID: 1},
		{ID: 2, Name: "San Francisco", StateID: 1},
		{ID: 3, Name: "Houston", StateID: 2},
		{ID: 4, Name: "Dallas", StateID: 2},
		{ID: 5, Name: "Vancouver", StateID: 3},
		{ID: 6, Name: "Toronto", StateID: 4},
		{ID: 7, Name: "London", StateID: 5},
		{ID: 8, Name: "Mumbai", StateID: 6},
		{ID: 9, Name: "Pune", StateID: 6},
	}
)
