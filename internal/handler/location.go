package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"location-cache-api/internal/model"
	"location-cache-api/internal/repository"
	"location-cache-api/internal/service"
	"location-cache-api/pkg/apierror"
	"location-cache-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// LocationHandler handles location lookups and country mutations.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// CountryRequest is the body of country create and update requests.
type CountryRequest struct {
	Name string `json:"name"`
}

// GetCountries handles GET /api/v1/location/countries
func (h *LocationHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.locations.GetCountries(r.Context())
	if err != nil {
		log.Printf("[LocationHandler] GetCountries failed: %v", err)
		response.Error(w, apierror.InternalError("failed to load countries"))
		return
	}
	if len(countries) == 0 {
		response.Error(w, apierror.NotFound("No countries found."))
		return
	}
	response.OK(w, countries)
}

// AddCountry handles POST /api/v1/location/countries
func (h *LocationHandler) AddCountry(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeCountry(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	country := model.Country{Name: req.Name}
	if err := h.locations.AddCountry(r.Context(), &country); err != nil {
		log.Printf("[LocationHandler] AddCountry failed: %v", err)
		response.Error(w, apierror.InternalError("failed to add country"))
		return
	}
	response.Created(w, country)
}

// UpdateCountry handles PUT /api/v1/location/countries/{country_id}
func (h *LocationHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "country_id")
	if !ok {
		return
	}
	req, apiErr := decodeCountry(r)
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	country := model.Country{ID: id, Name: req.Name}
	if err := h.locations.UpdateCountry(r.Context(), country); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, apierror.NotFoundf("Country %d not found", id))
			return
		}
		log.Printf("[LocationHandler] UpdateCountry %d failed: %v", id, err)
		response.Error(w, apierror.InternalError("failed to update country"))
		return
	}
	response.OK(w, country)
}

// GetStates handles GET /api/v1/location/states/{country_id}
func (h *LocationHandler) GetStates(w http.ResponseWriter, r *http.Request) {
	countryID, ok := parseID(w, r, "country_id")
	if !ok {
		return
	}

	states, err := h.locations.GetStates(r.Context(), countryID)
	if err != nil {
		log.Printf("[LocationHandler] GetStates %d failed: %v", countryID, err)
		response.Error(w, apierror.InternalError("failed to load states"))
		return
	}
	if len(states) == 0 {
		response.Error(w, apierror.NotFoundf("No states found for country ID %d", countryID))
		return
	}
	response.OK(w, states)
}

// GetCities handles GET /api/v1/location/cities/{state_id}
func (h *LocationHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	stateID, ok := parseID(w, r, "state_id")
	if !ok {
		return
	}

	cities, err := h.locations.GetCities(r.Context(), stateID)
	if err != nil {
		log.Printf("[LocationHandler] GetCities %d failed: %v", stateID, err)
		response.Error(w, apierror.InternalError("failed to load cities"))
		return
	}
	if len(cities) == 0 {
		response.Error(w, apierror.NotFoundf("No cities found for state ID %d", stateID))
		return
	}
	response.OK(w, cities)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, apierror.BadRequest(param+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

func decodeCountry(r *http.Request) (CountryRequest, *apierror.Error) {
	defer r.Body.Close()

	var req CountryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apierror.BadRequest("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return req, apierror.ValidationError("invalid country",
			apierror.FieldError{Field: "name", Message: "name is required"})
	}
	return req, nil
}
