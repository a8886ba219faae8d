package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBodyTooLarge is wrapped by a NetworkError when a response exceeds the
// configured body limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

const maxErrorBody = 512

// NetworkError reports a failed upstream request. StatusCode is 0 when no
// HTTP response was received (DNS, connect, TLS, timeout, cancellation).
type NetworkError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements error.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("pokeapi: request %s failed: %v", e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("pokeapi: %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	case e.Body != "":
		return fmt.Sprintf("pokeapi: %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("pokeapi: %s returned status %d", e.URL, e.StatusCode)
	}
}

// Unwrap exposes the underlying transport error, if any.
func (e *NetworkError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.StatusCode == http.StatusNotFound
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "…"
	}
	return string(b)
}
