package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

const leveldbPrefix = "compare:"

// LevelDBBackend persists values in an embedded LevelDB directory.
type LevelDBBackend struct {
	db *leveldb.DB
}

// NewLevelDBBackend opens (creating if needed) the database at path.
func NewLevelDBBackend(path string) (*LevelDBBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("leveldb path is required")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb store: %w", err)
	}
	return &LevelDBBackend{db: db}, nil
}

// Load implements Backend.
func (l *LevelDBBackend) Load(_ context.Context, key string) ([]byte, error) {
	v, err := l.db.Get([]byte(leveldbPrefix+key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get %q: %w", key, err)
	}
	return v, nil
}

// Save implements Backend.
func (l *LevelDBBackend) Save(_ context.Context, key string, value []byte) error {
	if err := l.db.Put([]byte(leveldbPrefix+key), value, nil); err != nil {
		return fmt.Errorf("leveldb put %q: %w", key, err)
	}
	return nil
}

// Close implements Backend.
func (l *LevelDBBackend) Close() error { return l.db.Close() }
