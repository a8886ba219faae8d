// Package cache provides the shared response cache sitting between every
// read path and the upstream API. The only implementation is Dedup, which
// merges concurrent fetches of the same key and serves successful responses
// from memory for a fixed freshness window.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// DefaultTTL is the freshness window applied when Options.TTL is unset.
const DefaultTTL = 5 * time.Minute

// DefaultFetchTimeout bounds a single upstream fetch when Options.FetchTimeout
// is unset.
const DefaultFetchTimeout = 30 * time.Second

// ErrMalformedPayload is returned when the upstream answers with a body that
// is not valid JSON. Such responses are never stored.
var ErrMalformedPayload = errors.New("upstream payload is not valid JSON")

// Fetcher performs the upstream request for a resource key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key string) ([]byte, error)

// Fetch calls f(ctx, key).
func (f FetcherFunc) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// Record is a successfully fetched payload and the time it was captured.
// Records are shared between callers and must be treated as read-only.
type Record struct {
	Key       string
	Body      json.RawMessage
	FetchedAt time.Time
}

// Decode unmarshals the record body into v.
func (r *Record) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Stats is a point-in-time view of the cache maps, for diagnostics only.
type Stats struct {
	InFlight int `json:"in_flight"`
	Records  int `json:"records"`
}

// State is the lifecycle state of a single key.
type State int

const (
	StateAbsent State = iota
	StateInFlight
	StateFresh
	StateStale
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateInFlight:
		return "in_flight"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Cache is the contract consumers program against.
type Cache interface {
	Get(ctx context.Context, key string) (*Record, error)
	Clear()
	Stats() Stats
}
