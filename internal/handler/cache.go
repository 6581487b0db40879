package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"location-cache-api/internal/cache"
	"location-cache-api/pkg/apierror"
	"location-cache-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// NotFoundMarker is reported for a tracked key the store no longer holds.
const NotFoundMarker = "Not Found"

// CacheHandler exposes the administrative cache surface.
type CacheHandler struct {
	cache *cache.Manager
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(manager *cache.Manager) *CacheHandler {
	return &CacheHandler{cache: manager}
}

// CacheEntry is one key of the cache listing.
type CacheEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// GetAll handles GET /api/v1/caches/all
func (h *CacheHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	keys := h.cache.ListKeys()
	entries := make([]CacheEntry, 0, len(keys))

	for _, key := range keys {
		if value, ok := h.cache.TryGet(key); ok {
			entries = append(entries, CacheEntry{Key: key, Value: cachedValue(value)})
			continue
		}
		entries = append(entries, CacheEntry{Key: key, Value: NotFoundMarker})
	}

	response.OK(w, entries)
}

// Get handles GET /api/v1/caches/{key}
func (h *CacheHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := cacheKeyParam(r)

	value, ok := h.cache.TryGet(key)
	if !ok {
		response.Error(w, apierror.NotFoundf("Cache key '%s' not found", key))
		return
	}
	response.OK(w, CacheEntry{Key: key, Value: cachedValue(value)})
}

// ClearAll handles DELETE /api/v1/caches/clearall
func (h *CacheHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearAll(); err != nil {
		log.Printf("[CacheHandler] An error occurred while clearing cache: %v", err)
		response.Error(w, apierror.InternalError("Failed to clear cache."))
		return
	}
	response.Message(w, "All cache entries cleared.")
}

// Remove handles DELETE /api/v1/caches/{key}
func (h *CacheHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := cacheKeyParam(r)

	if !h.cache.Contains(key) {
		response.Error(w, apierror.NotFoundf("Cache key '%s' not found.", key))
		return
	}
	if err := h.cache.Remove(key); err != nil {
		log.Printf("[CacheHandler] An error occurred while clearing cache entry '%s': %v", key, err)
		response.Error(w, apierror.InternalError("Failed to clear cache entry '"+key+"'."))
		return
	}
	response.Message(w, "Cache entry '"+key+"' cleared.")
}

// cachedValue embeds JSON values as-is and reports anything else as a string.
func cachedValue(value []byte) interface{} {
	if json.Valid(value) {
		return json.RawMessage(value)
	}
	return string(value)
}

func cacheKeyParam(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}
