package pokeapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/internal/metrics"
	"github.com/ferro-labs/pokedex/internal/ratelimit"
	"github.com/ferro-labs/pokedex/internal/version"
)

// DefaultMaxBodyBytes caps a single upstream response. The bulk pokemon
// listing used by search is well under 1 MiB.
const DefaultMaxBodyBytes int64 = 8 << 20

// Upstream fetches resource keys from PokeAPI over HTTP. It satisfies
// cache.Fetcher and is safe for concurrent use.
type Upstream struct {
	httpClient   *http.Client
	limiter      *ratelimit.Limiter
	userAgent    string
	maxBodyBytes int64
}

// Option configures an Upstream.
type Option func(*Upstream)

// WithHTTPClient replaces the default client built on NewTransport.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Upstream) {
		if c != nil {
			u.httpClient = c
		}
	}
}

// WithLimiter throttles outbound requests. Each fetch waits for a token.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(u *Upstream) { u.limiter = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(u *Upstream) {
		if ua != "" {
			u.userAgent = ua
		}
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes. Non-positive values are
// ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(u *Upstream) {
		if n > 0 {
			u.maxBodyBytes = n
		}
	}
}

// NewUpstream returns an Upstream with the given options applied.
func NewUpstream(opts ...Option) *Upstream {
	u := &Upstream{
		httpClient:   &http.Client{Transport: NewTransport()},
		userAgent:    version.UserAgent(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Fetch issues a GET for key and returns the raw body of a 2xx response.
// Any other outcome is a *NetworkError.
func (u *Upstream) Fetch(ctx context.Context, key string) ([]byte, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{URL: key, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, &NetworkError{URL: key, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", u.userAgent)

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, &NetworkError{URL: key, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.UpstreamRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, u.maxBodyBytes+1))
	if err != nil {
		return nil, &NetworkError{URL: key, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > u.maxBodyBytes {
		return nil, &NetworkError{URL: key, StatusCode: resp.StatusCode, Err: ErrBodyTooLarge}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{URL: key, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}

	logging.FromContext(ctx).Debug("upstream fetch",
		slog.String("url", key),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}
