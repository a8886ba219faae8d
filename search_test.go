package pokedex

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ferro-labs/pokedex/internal/cache"
	"github.com/ferro-labs/pokedex/pokeapi"
)

var kantoStarters = []string{"bulbasaur", "ivysaur", "venusaur", "charmander", "pikachu", "pichu", "raichu"}

// listing registers the bulk window for limit and every pokemon in names.
func (f *fakeAPI) listing(limit int, names []string) {
	results := make([]string, len(names))
	for i, name := range names {
		results[i] = fmt.Sprintf(`{"name":%q,"url":"%s/pokemon/%d/"}`, name, f.srv.URL, i+1)
		f.pokemon(i+1, name)
	}
	f.set(fmt.Sprintf("/pokemon/?limit=%d&offset=0", limit),
		fmt.Sprintf(`{"count":%d,"results":[%s]}`, len(names), strings.Join(results, ",")))
}

func names(ps []*pokeapi.Pokemon) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestSearchPokemon(t *testing.T) {
	f := newFakeAPI(t)
	f.listing(DefaultSearchWindow, kantoStarters)
	c := newTestClient(t, f)
	ctx := context.Background()

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"saur", 0, []string{"bulbasaur", "ivysaur", "venusaur"}},
		{"SAUR", 2, []string{"bulbasaur", "ivysaur"}},
		{"chu", 0, []string{"pikachu", "pichu", "raichu"}},
		{" PI ", 1, []string{"pikachu"}},
		{"mew", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.SearchPokemon(ctx, tt.query, tt.limit)
			if err != nil {
				t.Fatalf("SearchPokemon: %v", err)
			}
			if strings.Join(names(got), ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", names(got), tt.want)
			}
		})
	}

	listKey := fmt.Sprintf("/pokemon/?limit=%d&offset=0", DefaultSearchWindow)
	if n := f.count(listKey); n != 1 {
		t.Errorf("bulk listing hits = %d, want 1", n)
	}
	if n := f.count("/pokemon/pikachu/"); n != 1 {
		t.Errorf("pikachu hits = %d, want 1", n)
	}
}

func TestSearchPokemon_BlankQuery(t *testing.T) {
	f := newFakeAPI(t)
	f.listing(DefaultSearchWindow, kantoStarters)
	c := newTestClient(t, f)

	for _, q := range []string{"", "   "} {
		got, err := c.SearchPokemon(context.Background(), q, 0)
		if err != nil || len(got) != 0 {
			t.Fatalf("SearchPokemon(%q) = %v, %v", q, got, err)
		}
	}
	if s := c.CacheStats(); s.Records != 0 {
		t.Errorf("records = %d, want 0 (no fetch for blank query)", s.Records)
	}
}

func TestSearchPokemon_NamesBeyondWindowAreNotFound(t *testing.T) {
	f := newFakeAPI(t)
	f.listing(3, kantoStarters[:3])
	c := newTestClientWith(t, f, func(cfg *Config) {
		cfg.Search.Window = 3
		cfg.Search.DefaultLimit = 3
	})

	got, err := c.SearchPokemon(context.Background(), "pikachu", 0)
	if err != nil {
		t.Fatalf("SearchPokemon: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty result", names(got))
	}
	if n := f.count("/pokemon/?limit=3&offset=0"); n != 1 {
		t.Errorf("listing hits = %d, want 1", n)
	}
}

func TestSearchPokemon_HydrationFailure(t *testing.T) {
	f := newFakeAPI(t)
	f.listing(DefaultSearchWindow, kantoStarters)
	f.set("/pokemon/pichu/", `not json`)
	c := newTestClient(t, f)

	if _, err := c.SearchPokemon(context.Background(), "chu", 0); err == nil {
		t.Fatal("expected error when a match fails to load")
	}
}

func TestSearchNames(t *testing.T) {
	f := newFakeAPI(t)
	f.listing(DefaultSearchWindow, kantoStarters)
	c := newTestClient(t, f)

	got, err := c.SearchNames(context.Background(), "char", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "charmander" {
		t.Errorf("got %v", got)
	}
	if n := f.count("/pokemon/charmander/"); n != 0 {
		t.Errorf("SearchNames hydrated %d pokemon", n)
	}
}

func TestSearchPokemon_BoundedHydration(t *testing.T) {
	const matches = 40
	results := make([]string, matches)
	for i := range results {
		results[i] = fmt.Sprintf(`{"name":"mon-%d","url":""}`, i)
	}
	listing := fmt.Sprintf(`{"count":%d,"results":[%s]}`, matches, strings.Join(results, ","))

	var mu sync.Mutex
	active, peak := 0, 0
	fetcher := cache.FetcherFunc(func(_ context.Context, key string) ([]byte, error) {
		if strings.Contains(key, "?limit=") {
			return []byte(listing), nil
		}
		mu.Lock()
		active++
		peak = max(peak, active)
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		name := strings.TrimSuffix(key[strings.LastIndex(strings.TrimSuffix(key, "/"), "/")+1:], "/")
		return []byte(fmt.Sprintf(`{"name":%q}`, name)), nil
	})
	c, err := New(Config{}, WithFetcher(fetcher))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.SearchPokemon(context.Background(), "mon", matches)
	if err != nil {
		t.Fatalf("SearchPokemon: %v", err)
	}
	if len(got) != matches || got[0].Name != "mon-0" || got[matches-1].Name != "mon-39" {
		t.Fatalf("got %d results: %v", len(got), names(got))
	}
	if peak > searchConcurrency {
		t.Errorf("peak concurrent fetches = %d, want <= %d", peak, searchConcurrency)
	}
}
