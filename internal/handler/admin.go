package handler

import (
	"net/http"
	"runtime"
	"time"

	"location-cache-api/internal/cache"
	"location-cache-api/pkg/response"
)

// StoreStatser exposes cache store counters.
type StoreStatser interface {
	Stats() cache.StoreStats
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	cache     *cache.Manager
	store     StoreStatser
	db        Pinger
	dbType    string // sqlite, mysql, or postgres
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(manager *cache.Manager, store StoreStatser, db Pinger, dbType string) *AdminHandler {
	return &AdminHandler{
		cache:     manager,
		store:     store,
		db:        db,
		dbType:    dbType,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	cacheStats := map[string]interface{}{
		"tracked_keys": h.cache.TrackedCount(),
	}
	if h.store != nil {
		cacheStats["store"] = h.store.Stats()
	}
	stats["cache"] = cacheStats

	if h.db != nil {
		dbStats, err := h.db.GetStats(r.Context())
		if err == nil {
			dbStats["status"] = "connected"
			stats["database"] = dbStats
		} else {
			stats["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}
	} else {
		stats["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
