package main

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/admin"
	"github.com/ferro-labs/pokedex/internal/compare"
	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/internal/metrics"
	"github.com/ferro-labs/pokedex/internal/ratelimit"
	"github.com/ferro-labs/pokedex/internal/version"
)

type server struct {
	client  *pokedex.Client
	compare *compare.List
}

// newRouter wires the read API, the comparison list and the admin API.
// list may be nil, in which case the compare endpoints answer 501.
func newRouter(client *pokedex.Client, list *compare.List, cfg pokedex.ServerConfig) http.Handler {
	s := &server{client: client, compare: list}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(corsMiddleware(cfg.CORSOrigins...))

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if rl := cfg.RateLimit; rl != nil {
			r.Use(rateLimitMiddleware(ratelimit.NewStore(rl.RPS, rl.Burst)))
		}

		r.Get("/pokemon", s.listPokemon)
		r.Get("/pokemon/{nameOrID}", s.getPokemon)
		r.Get("/pokemon/{nameOrID}/evolution", s.evolution)
		r.Get("/pokemon/{nameOrID}/moves", s.pokemonMoves)
		r.Get("/species/{nameOrID}", s.getSpecies)
		r.Get("/search", s.search)
		r.Get("/moves/{nameOrID}", s.getMove)
		r.Get("/moves/{nameOrID}/machine", s.moveMachine)
		r.Get("/machines", s.listMachines)
		r.Get("/machines/{id}", s.getMachine)

		r.Get("/compare", s.getCompare)
		r.Post("/compare", s.addCompare)
		r.Delete("/compare", s.clearCompare)
		r.Delete("/compare/{id}", s.removeCompare)
	})

	adminHandlers := &admin.Handlers{
		Cache:   client,
		Configs: client,
	}
	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.TokenAuth(cfg.AdminToken))
		r.Mount("/", adminHandlers.Routes())
	})

	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  version.Short(),
		"upstream": s.client.BaseURL(),
		"cache":    s.client.CacheStats(),
	})
}

// rateLimitMiddleware rejects requests once the caller's IP has exhausted
// its token bucket.
func rateLimitMiddleware(store *ratelimit.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.Allow(clientIP(r)) {
				metrics.RateLimitRejections.WithLabelValues("ip").Inc()
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "rate_limit_error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr, which RealIP may already have
// replaced with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the JSON error envelope used by every endpoint.
func writeError(w http.ResponseWriter, status int, message, errType string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    errType,
		},
	})
}
