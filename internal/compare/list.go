// Package compare keeps the side-by-side comparison list: at most
// MaxEntries pokemon, saved as one JSON array under a single key after
// every change and restored on open.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/pokeapi"
)

// MaxEntries is the most pokemon a comparison list holds.
const MaxEntries = 3

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "pokemon-comparison"

// Entry keeps only the fields shown side by side.
type Entry struct {
	ID        int                      `json:"id"`
	Name      string                   `json:"name"`
	Sprites   pokeapi.Sprites          `json:"sprites"`
	Types     []pokeapi.PokemonType    `json:"types"`
	Stats     []pokeapi.PokemonStat    `json:"stats"`
	Height    int                      `json:"height"`
	Weight    int                      `json:"weight"`
	Abilities []pokeapi.PokemonAbility `json:"abilities"`
}

// EntryFrom trims a pokemon down to its comparison fields.
func EntryFrom(p *pokeapi.Pokemon) Entry {
	return Entry{
		ID:        p.ID,
		Name:      p.Name,
		Sprites:   p.Sprites,
		Types:     p.Types,
		Stats:     p.Stats,
		Height:    p.Height,
		Weight:    p.Weight,
		Abilities: p.Abilities,
	}
}

// List is a persisted comparison list. It is safe for concurrent use.
type List struct {
	backend Backend
	key     string

	mu      sync.Mutex
	entries []Entry
}

// Open restores the list stored under key. Missing, unreadable or
// malformed data yields an empty list; only the latter two are logged.
func Open(ctx context.Context, backend Backend, key string) (*List, error) {
	if backend == nil {
		return nil, fmt.Errorf("compare: backend is required")
	}
	if key == "" {
		key = DefaultKey
	}
	l := &List{backend: backend, key: key}

	data, err := backend.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		logging.FromContext(ctx).Warn("comparison list unreadable, starting empty", "key", key, "error", err.Error())
	default:
		var entries []Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			logging.FromContext(ctx).Warn("comparison list malformed, starting empty", "key", key, "error", err.Error())
		} else if len(entries) > MaxEntries {
			l.entries = entries[:MaxEntries]
		} else {
			l.entries = entries
		}
	}
	return l, nil
}

// Key returns the storage key.
func (l *List) Key() string { return l.key }

// Add appends p unless the list is full or already holds p's id. Every
// successful add persists the whole list; a save failure is returned but
// the in-memory change is kept.
func (l *List) Add(ctx context.Context, p *pokeapi.Pokemon) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.canAddLocked() || l.indexLocked(p.ID) >= 0 {
		return false, nil
	}
	l.entries = append(l.entries, EntryFrom(p))
	return true, l.saveLocked(ctx)
}

// Remove drops the entry with id. It reports whether anything was removed.
func (l *List) Remove(ctx context.Context, id int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true, l.saveLocked(ctx)
}

// Toggle removes p if present, otherwise adds it. It reports false only
// when p was absent and could not be added.
func (l *List) Toggle(ctx context.Context, p *pokeapi.Pokemon) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(p.ID); i >= 0 {
		l.entries = slices.Delete(l.entries, i, i+1)
		return true, l.saveLocked(ctx)
	}
	if !l.canAddLocked() {
		return false, nil
	}
	l.entries = append(l.entries, EntryFrom(p))
	return true, l.saveLocked(ctx)
}

// Clear empties the list.
func (l *List) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return l.saveLocked(ctx)
}

// Contains reports whether id is in the list.
func (l *List) Contains(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexLocked(id) >= 0
}

// CanAddMore reports whether the list has room.
func (l *List) CanAddMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.canAddLocked()
}

// Entries returns a copy of the list in insertion order.
func (l *List) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *List) canAddLocked() bool { return len(l.entries) < MaxEntries }

func (l *List) indexLocked(id int) int {
	return slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
}

func (l *List) saveLocked(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode comparison list: %w", err)
	}
	if err := l.backend.Save(ctx, l.key, data); err != nil {
		logging.FromContext(ctx).Warn("comparison list not saved", "key", l.key, "error", err.Error())
		return err
	}
	return nil
}
