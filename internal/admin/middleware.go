package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// TokenAuth returns a chi-compatible middleware that requires
// "Authorization: Bearer <token>". An empty token disables the check.
func TokenAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing or invalid authorization header", "authentication_error", "missing_token")
				return
			}
			presented := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid admin token", "authentication_error", "invalid_token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the unified JSON error response:
//
//	{"error":{"message":"...","type":"...","code":"..."}}
//
// errType and code may be empty; defaults are derived from the HTTP status.
func writeError(w http.ResponseWriter, status int, message, errType, code string) {
	if errType == "" {
		errType = defaultErrType(status)
	}
	if code == "" {
		code = errType
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"message": message,
			"type":    errType,
			"code":    code,
		},
	})
}

func defaultErrType(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "authentication_error"
	case status == http.StatusForbidden:
		return "permission_error"
	case status == http.StatusNotFound:
		return "not_found_error"
	case status >= 400 && status < 500:
		return "invalid_request_error"
	default:
		return "server_error"
	}
}
