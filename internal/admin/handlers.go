// Package admin provides HTTP handlers for the pokedex administration API:
// cache introspection and clear-all, plus the effective configuration.
// Mount Routes behind TokenAuth.
package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/cache"
	"github.com/ferro-labs/pokedex/internal/logging"
)

// CacheAdmin is the subset of *pokedex.Client the cache endpoints need.
type CacheAdmin interface {
	ClearCache()
	CacheStats() cache.Stats
	Lookup(rawURL string) (cache.State, error)
}

// ConfigSource exposes the effective configuration.
type ConfigSource interface {
	Config() pokedex.Config
}

// Handlers holds dependencies for admin HTTP handlers.
type Handlers struct {
	Cache   CacheAdmin
	Configs ConfigSource
}

const redacted = "[redacted]"

// Routes returns a chi.Router with all admin endpoints mounted.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/cache", h.cacheStats)
	r.Delete("/cache", h.clearCache)
	r.Get("/cache/lookup", h.cacheLookup)
	r.Get("/config", h.getConfig)
	return r
}

func (h *Handlers) cacheStats(w http.ResponseWriter, _ *http.Request) {
	if h.Cache == nil {
		writeError(w, http.StatusNotImplemented, "cache administration is not enabled", "not_implemented_error", "not_implemented")
		return
	}
	writeJSON(w, http.StatusOK, h.Cache.CacheStats())
}

func (h *Handlers) clearCache(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		writeError(w, http.StatusNotImplemented, "cache administration is not enabled", "not_implemented_error", "not_implemented")
		return
	}
	before := h.Cache.CacheStats()
	h.Cache.ClearCache()
	logging.FromContext(r.Context()).Info("cache cleared",
		"records", before.Records, "in_flight", before.InFlight)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cleared":    before,
		"cleared_at": time.Now().UTC(),
	})
}

func (h *Handlers) cacheLookup(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		writeError(w, http.StatusNotImplemented, "cache administration is not enabled", "not_implemented_error", "not_implemented")
		return
	}
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required", "", "missing_url")
		return
	}
	state, err := h.Cache.Lookup(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "", "invalid_url")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": raw, "state": state.String()})
}

func (h *Handlers) getConfig(w http.ResponseWriter, _ *http.Request) {
	if h.Configs == nil {
		writeError(w, http.StatusNotImplemented, "config inspection is not enabled", "not_implemented_error", "not_implemented")
		return
	}
	cfg := h.Configs.Config()
	if cfg.Server.AdminToken != "" {
		cfg.Server.AdminToken = redacted
	}
	if cfg.Compare.DSN != "" && cfg.Compare.Backend == pokedex.ComparePostgres {
		cfg.Compare.DSN = redacted
	}
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
