package pokedex

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ferro-labs/pokedex/pokeapi"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultSearchWindow   = 2000
	DefaultSearchLimit    = 20
	DefaultPageSize       = 20
	DefaultMovesPerPage   = 10
	DefaultCompareKey     = "pokemon-comparison"
	DefaultServerAddr     = ":8080"
	DefaultUpstreamFetch  = 30 * time.Second
	DefaultCacheFreshness = 5 * time.Minute
)

// CompareBackend names a comparison-list persistence backend.
type CompareBackend string

// Supported comparison-list backends.
const (
	CompareMemory   CompareBackend = "memory"
	CompareLevelDB  CompareBackend = "leveldb"
	CompareSQLite   CompareBackend = "sqlite"
	ComparePostgres CompareBackend = "postgres"
)

// Config holds the configuration for a pokedex client and the binaries
// built on it.
type Config struct {
	// Upstream configures how PokeAPI is reached.
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream"`
	// Cache configures the shared request cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`
	// Search configures bulk-listing name search.
	Search SearchConfig `json:"search" yaml:"search"`
	// Server is only read by pokedexd.
	Server ServerConfig `json:"server" yaml:"server"`
	// Compare selects where the comparison list is persisted.
	Compare CompareConfig `json:"compare" yaml:"compare"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// UpstreamConfig configures the PokeAPI transport.
type UpstreamConfig struct {
	BaseURL      string           `json:"base_url" yaml:"base_url"`
	Timeout      Duration         `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RateLimit    *RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	MaxBodyBytes int64            `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty"`
}

// RateLimitConfig is a token bucket: RPS tokens per second, up to Burst.
type RateLimitConfig struct {
	RPS   float64 `json:"rps" yaml:"rps"`
	Burst float64 `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// CacheConfig configures the request cache.
type CacheConfig struct {
	TTL Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// SearchConfig configures name search. Window is how many listing entries
// are scanned; names beyond it are never found.
type SearchConfig struct {
	Window       int `json:"window,omitempty" yaml:"window,omitempty"`
	DefaultLimit int `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr        string           `json:"addr,omitempty" yaml:"addr,omitempty"`
	CORSOrigins []string         `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
	AdminToken  string           `json:"admin_token,omitempty" yaml:"admin_token,omitempty"`
	RateLimit   *RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// CompareConfig configures comparison-list persistence. DSN is a directory
// for leveldb, a file path for sqlite and a connection string for postgres.
type CompareConfig struct {
	Backend CompareBackend `json:"backend,omitempty" yaml:"backend,omitempty"`
	DSN     string         `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Key     string         `json:"key,omitempty" yaml:"key,omitempty"`
}

// LogConfig selects log level (debug|info|warn|error) and format (json|text).
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DefaultConfig returns a Config pointing at the public PokeAPI with every
// default applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = pokeapi.DefaultBaseURL
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = Duration(DefaultUpstreamFetch)
	}
	if c.Upstream.MaxBodyBytes == 0 {
		c.Upstream.MaxBodyBytes = pokeapi.DefaultMaxBodyBytes
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(DefaultCacheFreshness)
	}
	if c.Search.Window == 0 {
		c.Search.Window = DefaultSearchWindow
	}
	if c.Search.DefaultLimit == 0 {
		c.Search.DefaultLimit = DefaultSearchLimit
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Compare.Backend == "" {
		c.Compare.Backend = CompareMemory
	}
	if c.Compare.Key == "" {
		c.Compare.Key = DefaultCompareKey
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Duration is a time.Duration written as a Go duration string ("5m",
// "30s") in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	return d.set(s)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}
