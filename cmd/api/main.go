package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location-cache-api/internal/cache"
	"location-cache-api/internal/config"
	"location-cache-api/internal/handler"
	"location-cache-api/internal/middleware"
	"location-cache-api/internal/repository"
	"location-cache-api/internal/router"
	"location-cache-api/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Location Cache API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize location repository based on config
	var locationRepo *repository.SQLLocationRepository
	var err error
	switch cfg.LocationDB.Type {
	case "mysql":
		locationRepo, err = repository.NewMySQLLocationRepository(cfg.LocationDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		log.Println("MySQL location repository initialized")
	case "postgres", "postgresql":
		locationRepo, err = repository.NewPostgresLocationRepository(cfg.LocationDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		log.Println("PostgreSQL location repository initialized")
	default: // sqlite
		locationRepo, err = repository.NewSQLiteLocationRepository(cfg.LocationDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		log.Println("SQLite location repository initialized")
	}
	defer locationRepo.Close()

	if cfg.LocationDB.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := locationRepo.Seed(ctx); err != nil {
			log.Fatalf("Failed to seed location data: %v", err)
		}
		cancel()
	}

	// Initialize cache
	store := cache.NewMemoryStore(
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithCleanupInterval(cfg.Cache.CleanupInterval),
	)
	manager := cache.NewManager(store)
	log.Printf("Memory cache initialized (max_entries=%d, sliding=%v, absolute=%v)",
		cfg.Cache.MaxEntries, cfg.Cache.SlidingExpiration, cfg.Cache.AbsoluteExpiration)

	// Initialize Redis client (admin session tokens only)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed, session tokens disabled: %v", err)
		redisClient.Close()
		redisClient = nil
	} else {
		log.Println("Redis client initialized")
	}
	cancel()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize services
	locationService := service.NewLocationService(locationRepo, manager, service.LocationConfig{
		StatesSlidingExpiration:  cfg.Cache.SlidingExpiration,
		CitiesAbsoluteExpiration: cfg.Cache.AbsoluteExpiration,
	})

	var tokenService *service.TokenService
	if redisClient != nil {
		tokenService = service.NewTokenService(redisClient)
	}

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version, locationRepo)
	locationHandler := handler.NewLocationHandler(locationService)
	cacheHandler := handler.NewCacheHandler(manager)
	adminHandler := handler.NewAdminHandler(manager, store, locationRepo, cfg.LocationDB.Type)

	authCfg := middleware.AuthConfig{APIKeys: cfg.App.APIKeys}
	var authHandler *handler.AuthHandler
	if tokenService != nil {
		authCfg.Tokens = tokenService
		authHandler = handler.NewAuthHandler(tokenService, cfg.App.LoginKey)
	}
	if len(cfg.App.APIKeys) == 0 && authHandler == nil {
		log.Println("Warning: no API_KEYS configured and Redis unavailable, admin routes are unreachable")
	}

	// Create router
	r := router.New(router.Config{
		Handler:         healthHandler,
		LocationHandler: locationHandler,
		CacheHandler:    cacheHandler,
		AdminHandler:    adminHandler,
		AuthHandler:     authHandler,
		AuthMiddleware:  middleware.NewAuthMiddleware(authCfg),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Stop the sweeper after in-flight requests have drained
	if err := store.Close(); err != nil {
		log.Printf("Cache close error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
