package router

import (
	"net/http"

	"location-cache-api/internal/handler"
	"location-cache-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler         *handler.Handler
	LocationHandler *handler.LocationHandler
	CacheHandler    *handler.CacheHandler
	AdminHandler    *handler.AdminHandler
	AuthHandler     *handler.AuthHandler
	AuthMiddleware  func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key", "X-Token"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AuthHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/token", cfg.AuthHandler.GenerateToken)
				r.Post("/revoke", cfg.AuthHandler.RevokeToken)
			})
		}

		if cfg.LocationHandler != nil {
			r.Route("/location", func(r chi.Router) {
				r.Get("/countries", cfg.LocationHandler.GetCountries)
				r.Post("/countries", cfg.LocationHandler.AddCountry)
				r.Put("/countries/{country_id}", cfg.LocationHandler.UpdateCountry)
				r.Get("/states/{country_id}", cfg.LocationHandler.GetStates)
				r.Get("/cities/{state_id}", cfg.LocationHandler.GetCities)
			})
		}

		// Administrative routes
		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware)
			}

			if cfg.CacheHandler != nil {
				r.Route("/caches", func(r chi.Router) {
					r.Get("/all", cfg.CacheHandler.GetAll)
					r.Delete("/clearall", cfg.CacheHandler.ClearAll)
					r.Get("/{key}", cfg.CacheHandler.Get)
					r.Delete("/{key}", cfg.CacheHandler.Remove)
				})
			}

			if cfg.AdminHandler != nil {
				r.Get("/admin/stats", cfg.AdminHandler.GetStats)
			}
		})
	})

	return r
}
