package main

import (
	"net/http"
	"strings"
)

// corsMiddleware sets CORS headers for the read API. With no origins every
// origin is allowed; otherwise the request Origin is echoed back only when
// listed.
func corsMiddleware(allowedOrigins ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, value := range allowedOrigins {
		if origin := strings.TrimSpace(value); origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	allowAny := len(allowed) == 0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			switch origin := r.Header.Get("Origin"); {
			case allowAny:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "":
				if _, ok := allowed[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
				}
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
