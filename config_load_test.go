package pokedex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Valid(t *testing.T) {
	data := `{
		"upstream": {"base_url": "https://pokeapi.example/api/v2", "timeout": "10s", "rate_limit": {"rps": 5, "burst": 10}},
		"cache": {"ttl": "90s"},
		"search": {"window": 1500},
		"compare": {"backend": "sqlite", "dsn": "compare.db"}
	}`
	path := writeTempFile(t, "config.json", data)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upstream.Timeout.Std() != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Cache.TTL.Std() != 90*time.Second {
		t.Errorf("expected ttl 90s, got %v", cfg.Cache.TTL)
	}
	if cfg.Upstream.RateLimit == nil || cfg.Upstream.RateLimit.RPS != 5 {
		t.Errorf("expected rate limit rps 5, got %+v", cfg.Upstream.RateLimit)
	}
	if cfg.Search.Window != 1500 || cfg.Search.DefaultLimit != DefaultSearchLimit {
		t.Errorf("unexpected search config %+v", cfg.Search)
	}
	if cfg.Compare.Key != DefaultCompareKey {
		t.Errorf("expected default compare key, got %q", cfg.Compare.Key)
	}
	if err := ValidateConfig(*cfg); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	_, err := LoadConfig("/tmp/does-not-exist-config-12345.json")
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, "bad.json", `{invalid`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", "cache:\n  ttl: soon\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
	path = writeTempFile(t, "bad.json", `{"cache":{"ttl":300}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for numeric duration")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	data := `
upstream:
  base_url: http://localhost:9000/api/v2
cache:
  ttl: 1m
server:
  addr: ":9090"
  cors_origins: ["https://pokedex.example"]
  admin_token: secret
log:
  level: debug
  format: text
`
	path := writeTempFile(t, "config.yaml", data)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cache.TTL.Std() != time.Minute {
		t.Errorf("expected ttl 1m, got %v", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.AdminToken != "secret" || len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadConfig_YML(t *testing.T) {
	path := writeTempFile(t, "config.yml", "search:\n  default_limit: 5\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.DefaultLimit != 5 {
		t.Errorf("expected default limit 5, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Upstream.BaseURL == "" {
		t.Error("expected default base url")
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "config.toml", "key = value")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(Config{}); err != nil {
		t.Fatalf("zero config should be valid: %v", err)
	}
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"relative base url", Config{Upstream: UpstreamConfig{BaseURL: "/api/v2"}}},
		{"negative timeout", Config{Upstream: UpstreamConfig{Timeout: Duration(-time.Second)}}},
		{"negative ttl", Config{Cache: CacheConfig{TTL: Duration(-time.Minute)}}},
		{"zero rps", Config{Upstream: UpstreamConfig{RateLimit: &RateLimitConfig{}}}},
		{"negative server burst", Config{Server: ServerConfig{RateLimit: &RateLimitConfig{RPS: 1, Burst: -1}}}},
		{"limit above window", Config{Search: SearchConfig{Window: 10, DefaultLimit: 20}}},
		{"negative window", Config{Search: SearchConfig{Window: -1}}},
		{"unknown backend", Config{Compare: CompareConfig{Backend: "redis"}}},
		{"sqlite without dsn", Config{Compare: CompareConfig{Backend: CompareSQLite}}},
		{"unknown log level", Config{Log: LogConfig{Level: "verbose"}}},
		{"unknown log format", Config{Log: LogConfig{Format: "xml"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateConfig(tt.cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateConfigFile(t *testing.T) {
	valid := writeTempFile(t, "ok.yaml", `
upstream:
  base_url: https://pokeapi.co/api/v2
  rate_limit:
    rps: 10
cache:
  ttl: 5m
compare:
  backend: leveldb
  dsn: /var/lib/pokedex/compare
`)
	if err := ValidateConfigFile(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name, file, body, wantSubstr string
	}{
		{"unknown field", "a.json", `{"cache":{"ttl":"5m","size":10}}`, "config schema"},
		{"bad backend", "b.yaml", "compare:\n  backend: redis\n", "config schema"},
		{"bad duration", "c.json", `{"upstream":{"timeout":"forever"}}`, "config schema"},
		{"semantic", "d.json", `{"compare":{"backend":"postgres"}}`, "requires compare.dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigFile(writeTempFile(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not mention %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestValidateConfigFile_Empty(t *testing.T) {
	if err := ValidateConfigFile(writeTempFile(t, "empty.yaml", "")); err != nil {
		t.Fatalf("empty yaml should validate: %v", err)
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"1m30s"` {
		t.Errorf("marshal = %s", b)
	}
	var back Duration
	if err := back.UnmarshalJSON(b); err != nil || back != d {
		t.Errorf("unmarshal = %v, %v", back, err)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}
