package main

import (
	"fmt"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/compare"
)

// openCompareBackend builds the persistence backend named by cfg.
func openCompareBackend(cfg pokedex.CompareConfig) (compare.Backend, error) {
	switch cfg.Backend {
	case pokedex.CompareMemory, "":
		return compare.NewMemoryBackend(), nil
	case pokedex.CompareLevelDB:
		return compare.NewLevelDBBackend(cfg.DSN)
	case pokedex.CompareSQLite:
		return compare.NewSQLiteBackend(cfg.DSN)
	case pokedex.ComparePostgres:
		return compare.NewPostgresBackend(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown compare backend: %q", cfg.Backend)
	}
}
