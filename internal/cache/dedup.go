package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/internal/metrics"
)

// Options configures a Dedup cache.
type Options struct {
	// TTL is the freshness window of a stored record. Zero or negative
	// means DefaultTTL.
	TTL time.Duration
	// FetchTimeout bounds each upstream fetch. Zero means
	// DefaultFetchTimeout; negative disables the bound.
	FetchTimeout time.Duration
	// Now is the clock used for capture timestamps and freshness checks.
	// Defaults to time.Now.
	Now func() time.Time
}

// Dedup is a deduplicating TTL cache. A lookup returns a fresh record
// without touching the network, joins an in-flight fetch of the same key
// when there is one, and otherwise starts a new fetch that all later
// callers for that key join until it completes.
//
// Only successful fetches are stored. Failures reach every joined caller
// and the next lookup starts over. Records are never evicted by size; the
// record map grows until Clear is called.
type Dedup struct {
	fetcher Fetcher
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group singleflight.Group

	// attached, when set, runs after a caller is registered with a flight.
	attached func(key string)

	mu       sync.Mutex
	gen      uint64
	records  map[string]*Record
	inflight map[string]struct{}
}

var _ Cache = (*Dedup)(nil)

// New creates a Dedup cache in front of f.
func New(f Fetcher, opts Options) *Dedup {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dedup{
		fetcher:  f,
		ttl:      opts.TTL,
		timeout:  opts.FetchTimeout,
		now:      opts.Now,
		records:  make(map[string]*Record),
		inflight: make(map[string]struct{}),
	}
}

// TTL returns the configured freshness window.
func (d *Dedup) TTL() time.Duration { return d.ttl }

func (d *Dedup) fresh(rec *Record) bool {
	return d.now().Sub(rec.FetchedAt) < d.ttl
}

// Get returns the record for key. ctx bounds only this caller's wait: if it
// is cancelled the call returns ctx.Err() while a shared fetch keeps running
// for the other callers.
func (d *Dedup) Get(ctx context.Context, key string) (*Record, error) {
	log := logging.FromContext(ctx)

	d.mu.Lock()
	rec, stored := d.records[key]
	if stored && d.fresh(rec) {
		d.mu.Unlock()
		metrics.CacheLookups.WithLabelValues(metrics.OutcomeHit).Inc()
		log.Debug("cache hit", "key", key)
		return rec, nil
	}
	_, joining := d.inflight[key]
	gen := d.gen
	d.mu.Unlock()

	switch {
	case joining:
		metrics.CacheLookups.WithLabelValues(metrics.OutcomeJoin).Inc()
		log.Debug("cache join", "key", key)
	case stored:
		metrics.CacheLookups.WithLabelValues(metrics.OutcomeStale).Inc()
		log.Debug("cache stale", "key", key, "age", d.now().Sub(rec.FetchedAt).String())
	default:
		metrics.CacheLookups.WithLabelValues(metrics.OutcomeMiss).Inc()
		log.Debug("cache miss", "key", key)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := d.group.DoChan(flightKey(gen, key), func() (interface{}, error) {
		return d.fetch(ctx, gen, key)
	})
	if d.attached != nil {
		d.attached(key)
	}
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Record), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetch runs once per flight. It re-checks for a fresh record first because
// another flight for the key may have finished between the caller's lookup
// and this flight starting.
func (d *Dedup) fetch(ctx context.Context, gen uint64, key string) (*Record, error) {
	d.mu.Lock()
	if rec, ok := d.records[key]; ok && d.gen == gen && d.fresh(rec) {
		d.mu.Unlock()
		return rec, nil
	}
	if d.gen == gen {
		d.inflight[key] = struct{}{}
		metrics.CacheInFlight.Set(float64(len(d.inflight)))
	}
	d.mu.Unlock()

	fctx := context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, d.timeout)
		defer cancel()
	}

	body, err := d.fetcher.Fetch(fctx, key)
	if err == nil && !json.Valid(body) {
		err = fmt.Errorf("%w: %s", ErrMalformedPayload, key)
	}

	var rec *Record
	if err == nil {
		rec = &Record{Key: key, Body: json.RawMessage(body), FetchedAt: d.now()}
	}

	d.mu.Lock()
	// A Clear during the fetch bumps the generation; the result still goes
	// to this flight's callers but is not stored.
	if d.gen == gen {
		delete(d.inflight, key)
		if rec != nil {
			d.records[key] = rec
		}
		metrics.CacheInFlight.Set(float64(len(d.inflight)))
		metrics.CacheRecords.Set(float64(len(d.records)))
	}
	d.mu.Unlock()

	if err != nil {
		logging.FromContext(ctx).Warn("upstream fetch failed", "key", key, "error", err.Error())
		return nil, err
	}
	return rec, nil
}

// Peek reports the state of key without fetching.
func (d *Dedup) Peek(key string) (*Record, State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, stored := d.records[key]
	if stored && d.fresh(rec) {
		return rec, StateFresh
	}
	if _, ok := d.inflight[key]; ok {
		return rec, StateInFlight
	}
	if stored {
		return rec, StateStale
	}
	return nil, StateAbsent
}

// Clear drops every record and in-flight marker. Fetches already running
// finish for the callers that joined them, but their results are discarded
// and the next lookup of any key starts a new fetch.
func (d *Dedup) Clear() {
	d.mu.Lock()
	d.gen++
	d.records = make(map[string]*Record)
	d.inflight = make(map[string]struct{})
	d.mu.Unlock()

	metrics.CacheClears.Inc()
	metrics.CacheRecords.Set(0)
	metrics.CacheInFlight.Set(0)
}

// Stats returns the current sizes of the in-flight and record maps.
func (d *Dedup) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{InFlight: len(d.inflight), Records: len(d.records)}
}

func flightKey(gen uint64, key string) string {
	return strconv.FormatUint(gen, 10) + "|" + key
}
