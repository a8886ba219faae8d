package pokedex

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ferro-labs/pokedex/pokeapi"
)

// searchConcurrency caps the hydration fetches one search runs at once.
const searchConcurrency = 8

// SearchPokemon returns up to limit pokemon whose names contain query,
// case-insensitively, in listing order. limit <= 0 means the configured
// default.
//
// The scan covers only the first Search.Window entries of the listing,
// fetched once as a single cached bulk window. Names past the window are
// not found; that yields an empty result, not an error. A blank query
// returns an empty result without any fetch. Matches are hydrated a few
// at a time, in order.
func (c *Client) SearchPokemon(ctx context.Context, query string, limit int) ([]*pokeapi.Pokemon, error) {
	names, err := c.SearchNames(ctx, query, limit)
	if err != nil || len(names) == 0 {
		return nil, err
	}

	out := make([]*pokeapi.Pokemon, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)
	for i, name := range names {
		g.Go(func() error {
			p, err := c.GetPokemon(gctx, name)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchNames is SearchPokemon without hydration: it returns the matching
// names only.
func (c *Client) SearchNames(ctx context.Context, query string, limit int) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = c.config.Search.DefaultLimit
	}

	listing, err := c.ListPokemon(ctx, ListParams{Limit: c.config.Search.Window})
	if err != nil {
		return nil, err
	}

	var names []string
	for _, r := range listing.Results {
		if strings.Contains(strings.ToLower(r.Name), q) {
			names = append(names, r.Name)
			if len(names) == limit {
				break
			}
		}
	}
	return names, nil
}
