// Package pokeapi is the upstream side of the pokedex data-access layer. It
// builds canonical resource keys for the public PokeAPI, fetches them over
// HTTP, and defines the response types and identifier helpers used by the
// typed client in the root package.
//
// A resource key is the fully resolved URL of the resource. Every key,
// whether produced by a builder here or taken from a cross-reference link
// inside a response, passes through the same normalization, so two requests
// for the same resource always produce the same key byte for byte.
package pokeapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public PokeAPI v2 endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Resource families served by the upstream API.
const (
	ResourcePokemon = "pokemon"
	ResourceSpecies = "pokemon-species"
	ResourceMove    = "move"
	ResourceMachine = "machine"
	ResourceChain   = "evolution-chain"
)

// ErrRelativeURL is returned by NormalizeURL for URLs without scheme or host.
var ErrRelativeURL = errors.New("resource url must be absolute")

// NormalizeBaseURL validates a base endpoint and returns it with a lowercase
// scheme and host and without a trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := parseAbsolute(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}

// NormalizeURL returns the canonical key for an absolute resource URL:
// lowercase scheme and host, a path that always ends in "/", query
// parameters sorted by name, and no fragment.
func NormalizeURL(raw string) (string, error) {
	u, err := parseAbsolute(raw)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}
	return u.String(), nil
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse resource url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrRelativeURL, raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	return u, nil
}

// ResourceURL returns the key of a single resource looked up by name or
// numeric identifier. base must already be normalized (NormalizeBaseURL).
// Names are trimmed and lowercased, matching the upstream's slugs.
func ResourceURL(base, resource, nameOrID string) string {
	slug := strings.ToLower(strings.TrimSpace(nameOrID))
	return base + "/" + resource + "/" + url.PathEscape(slug) + "/"
}

// ListURL returns the key of a paginated listing window.
func ListURL(base, resource string, limit, offset int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return base + "/" + resource + "/?" + q.Encode()
}

// CollectionURL returns the key of a resource family's default listing.
func CollectionURL(base, resource string) string {
	return base + "/" + resource + "/"
}
