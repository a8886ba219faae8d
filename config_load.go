package pokedex

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ferro-labs/pokedex/pokeapi"
)

//go:embed config.schema.json
var configSchema []byte

const configSchemaURL = "config.schema.json"

// LoadConfig reads and parses a config file from the given path and applies
// defaults. Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ValidateConfig validates a Config for correctness. Zero values are
// accepted wherever ApplyDefaults would fill them.
func ValidateConfig(cfg Config) error {
	if cfg.Upstream.BaseURL != "" {
		if _, err := pokeapi.NormalizeBaseURL(cfg.Upstream.BaseURL); err != nil {
			return fmt.Errorf("upstream.base_url: %w", err)
		}
	}
	if cfg.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout must not be negative")
	}
	if cfg.Upstream.MaxBodyBytes < 0 {
		return fmt.Errorf("upstream.max_body_bytes must not be negative")
	}
	if err := validateRateLimit("upstream.rate_limit", cfg.Upstream.RateLimit); err != nil {
		return err
	}
	if err := validateRateLimit("server.rate_limit", cfg.Server.RateLimit); err != nil {
		return err
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if cfg.Search.Window < 0 {
		return fmt.Errorf("search.window must not be negative")
	}
	if cfg.Search.DefaultLimit < 0 {
		return fmt.Errorf("search.default_limit must not be negative")
	}
	if cfg.Search.Window > 0 && cfg.Search.DefaultLimit > cfg.Search.Window {
		return fmt.Errorf("search.default_limit %d exceeds search.window %d", cfg.Search.DefaultLimit, cfg.Search.Window)
	}

	switch cfg.Compare.Backend {
	case "", CompareMemory:
	case CompareLevelDB, CompareSQLite, ComparePostgres:
		if cfg.Compare.DSN == "" {
			return fmt.Errorf("compare backend %q requires compare.dsn", cfg.Compare.Backend)
		}
	default:
		return fmt.Errorf("unknown compare backend: %q", cfg.Compare.Backend)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Log.Format)
	}
	return nil
}

func validateRateLimit(field string, rl *RateLimitConfig) error {
	if rl == nil {
		return nil
	}
	if rl.RPS <= 0 {
		return fmt.Errorf("%s.rps must be positive", field)
	}
	if rl.Burst < 0 {
		return fmt.Errorf("%s.burst must not be negative", field)
	}
	return nil
}

// ValidateConfigFile checks a config file against the embedded JSON Schema
// and then against ValidateConfig. Schema errors name the offending path.
func ValidateConfigFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	doc, err := decodeDocument(path, data)
	if err != nil {
		return err
	}

	schema, err := compileConfigSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return ValidateConfig(*cfg)
}

func compileConfigSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("loading config schema: %w", err)
	}
	schema, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	return schema, nil
}

// decodeDocument turns a JSON or YAML file into the generic JSON value the
// schema validator expects. YAML is round-tripped through JSON so numbers
// and maps take their JSON shapes.
func decodeDocument(path string, data []byte) (interface{}, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
		if v == nil {
			v = map[string]interface{}{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting YAML config: %w", err)
		}
		data = b
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON config: %w", err)
	}
	return doc, nil
}
