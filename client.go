// Package pokedex is a read-only data-access layer for PokeAPI. Every
// lookup goes through one shared deduplicating TTL cache: concurrent
// requests for the same resource share a single upstream fetch, and
// successful responses are served from memory until they expire.
//
// Create a Client with New and share it between all consumers. Derived
// operations (search, evolution trees, move tables) are built on the same
// cached lookups.
package pokedex

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ferro-labs/pokedex/internal/cache"
	"github.com/ferro-labs/pokedex/internal/ratelimit"
	"github.com/ferro-labs/pokedex/pokeapi"
)

// Client is the typed facade over the shared cache. It is safe for
// concurrent use.
type Client struct {
	config Config
	base   string
	cache  *cache.Dedup
}

// Option customizes New.
type Option func(*clientOptions)

type clientOptions struct {
	fetcher    cache.Fetcher
	httpClient *http.Client
	now        func() time.Time
}

// WithFetcher replaces the HTTP upstream entirely.
func WithFetcher(f cache.Fetcher) Option {
	return func(o *clientOptions) { o.fetcher = f }
}

// WithHTTPClient sets the http.Client used by the default upstream.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithClock injects the clock used for cache freshness.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) { o.now = now }
}

// New validates cfg, applies defaults and builds the client with its
// cache and upstream.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.ApplyDefaults()

	base, err := pokeapi.NormalizeBaseURL(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	fetcher := o.fetcher
	if fetcher == nil {
		upOpts := []pokeapi.Option{
			pokeapi.WithHTTPClient(o.httpClient),
			pokeapi.WithMaxBodyBytes(cfg.Upstream.MaxBodyBytes),
		}
		if rl := cfg.Upstream.RateLimit; rl != nil {
			upOpts = append(upOpts, pokeapi.WithLimiter(ratelimit.New(rl.RPS, rl.Burst)))
		}
		fetcher = pokeapi.NewUpstream(upOpts...)
	}

	return &Client{
		config: cfg,
		base:   base,
		cache: cache.New(fetcher, cache.Options{
			TTL:          cfg.Cache.TTL.Std(),
			FetchTimeout: cfg.Upstream.Timeout.Std(),
			Now:          o.now,
		}),
	}, nil
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config { return c.config }

// BaseURL returns the normalized upstream base URL.
func (c *Client) BaseURL() string { return c.base }

// ClearCache drops every cached record and in-flight marker.
func (c *Client) ClearCache() { c.cache.Clear() }

// CacheStats reports the number of in-flight fetches and stored records.
func (c *Client) CacheStats() cache.Stats { return c.cache.Stats() }

// Lookup returns the cache state of an absolute resource URL without
// fetching it.
func (c *Client) Lookup(rawURL string) (cache.State, error) {
	key, err := pokeapi.NormalizeURL(rawURL)
	if err != nil {
		return cache.StateAbsent, err
	}
	_, state := c.cache.Peek(key)
	return state, nil
}

// get resolves key through the cache and decodes the record into v.
func (c *Client) get(ctx context.Context, key string, v interface{}) error {
	rec, err := c.cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := rec.Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// getLink resolves an absolute cross-reference URL taken from a response.
func (c *Client) getLink(ctx context.Context, rawURL string, v interface{}) error {
	key, err := pokeapi.NormalizeURL(rawURL)
	if err != nil {
		return err
	}
	return c.get(ctx, key, v)
}

func (c *Client) resourceKey(resource, nameOrID string) (string, error) {
	if strings.TrimSpace(nameOrID) == "" {
		return "", ErrEmptyIdentifier
	}
	return pokeapi.ResourceURL(c.base, resource, nameOrID), nil
}

// ListParams selects a listing window.
type ListParams struct {
	Limit  int
	Offset int
}

// PageParams converts a 1-based page number into a listing window.
// Non-positive page or limit fall back to page 1 and DefaultPageSize. An
// offset that would overflow saturates at math.MaxInt, which lies past the
// end of any listing.
func PageParams(page, limit int) ListParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if page-1 > math.MaxInt/limit {
		return ListParams{Limit: limit, Offset: math.MaxInt}
	}
	return ListParams{Limit: limit, Offset: (page - 1) * limit}
}

func (p ListParams) normalized() ListParams {
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListPokemon returns one window of the pokemon listing. Each distinct
// (limit, offset) pair is its own cache entry.
func (c *Client) ListPokemon(ctx context.Context, p ListParams) (*pokeapi.ListResponse, error) {
	p = p.normalized()
	var out pokeapi.ListResponse
	if err := c.get(ctx, pokeapi.ListURL(c.base, pokeapi.ResourcePokemon, p.Limit, p.Offset), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPokemon looks up a pokemon by name or numeric id.
func (c *Client) GetPokemon(ctx context.Context, nameOrID string) (*pokeapi.Pokemon, error) {
	key, err := c.resourceKey(pokeapi.ResourcePokemon, nameOrID)
	if err != nil {
		return nil, err
	}
	var out pokeapi.Pokemon
	if err := c.get(ctx, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSpecies looks up a species by name or numeric id.
func (c *Client) GetSpecies(ctx context.Context, nameOrID string) (*pokeapi.Species, error) {
	key, err := c.resourceKey(pokeapi.ResourceSpecies, nameOrID)
	if err != nil {
		return nil, err
	}
	var out pokeapi.Species
	if err := c.get(ctx, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMove looks up a move by name or numeric id.
func (c *Client) GetMove(ctx context.Context, nameOrID string) (*pokeapi.Move, error) {
	key, err := c.resourceKey(pokeapi.ResourceMove, nameOrID)
	if err != nil {
		return nil, err
	}
	var out pokeapi.Move
	if err := c.get(ctx, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMachine looks up a machine by id.
func (c *Client) GetMachine(ctx context.Context, id int) (*pokeapi.Machine, error) {
	var out pokeapi.Machine
	key := pokeapi.ResourceURL(c.base, pokeapi.ResourceMachine, strconv.Itoa(id))
	if err := c.get(ctx, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMachines returns the default page of the machine listing.
func (c *Client) ListMachines(ctx context.Context) (*pokeapi.MachineList, error) {
	var out pokeapi.MachineList
	if err := c.get(ctx, pokeapi.CollectionURL(c.base, pokeapi.ResourceMachine), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEvolutionChain fetches an evolution chain by the absolute URL found in
// a species record.
func (c *Client) GetEvolutionChain(ctx context.Context, chainURL string) (*pokeapi.EvolutionChain, error) {
	var out pokeapi.EvolutionChain
	if err := c.getLink(ctx, chainURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpeciesOf follows a pokemon's species link.
func (c *Client) SpeciesOf(ctx context.Context, p *pokeapi.Pokemon) (*pokeapi.Species, error) {
	if p.Species.URL == "" {
		return nil, fmt.Errorf("pokemon %q has no species link", p.Name)
	}
	var out pokeapi.Species
	if err := c.getLink(ctx, p.Species.URL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveMachine resolves the machine that teaches move in versionGroup.
func (c *Client) MoveMachine(ctx context.Context, move *pokeapi.Move, versionGroup string) (*pokeapi.Machine, error) {
	for _, mv := range move.Machines {
		if mv.VersionGroup.Name != versionGroup {
			continue
		}
		id, ok := pokeapi.ExtractMachineID(mv.Machine.URL)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, mv.Machine.URL)
		}
		return c.GetMachine(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNoMachine, move.Name, versionGroup)
}
