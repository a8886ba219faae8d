// Package logging provides structured logging for pokedex binaries. It wraps
// log/slog with a request ID carried in the context, an access-log
// middleware and level/format selection from config or environment.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is read from incoming requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

// Logger is the package-level structured logger. Prefer FromContext(ctx) so
// the request ID is attached automatically.
var Logger *slog.Logger

func init() {
	Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// ParseLevel maps debug/info/warn/error to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup (re-)initialises the package logger writing to stdout. format is
// "json" (default) or "text".
func Setup(level, format string) *slog.Logger {
	return SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	return Logger
}

// NewRequestID generates a random 16-byte hex request ID.
func NewRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithRequestID stores a request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// FromContext returns Logger annotated with the request_id from ctx.
func FromContext(ctx context.Context) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return Logger.With("request_id", id)
	}
	return Logger
}

// Middleware assigns a request ID (reusing an incoming X-Request-ID) and
// writes one structured access-log line per request once it completes.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = NewRequestID()
		}
		ctx := WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		FromContext(ctx).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
