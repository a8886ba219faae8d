package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	routes := map[string]string{
		"/pokemon/pikachu/":             `{"id":25,"name":"pikachu","height":4,"weight":60,"types":[{"slot":1,"type":{"name":"electric"}}],"species":{"name":"pikachu","url":"SRV/pokemon-species/25/"}}`,
		"/pokemon/25/":                  `{"id":25,"name":"pikachu"}`,
		"/pokemon/26/":                  `{"id":26,"name":"raichu"}`,
		"/pokemon/raichu/":              `{"id":26,"name":"raichu"}`,
		"/pokemon-species/25/":          `{"id":25,"name":"pikachu","evolution_chain":{"url":"SRV/evolution-chain/10/"}}`,
		"/evolution-chain/10/":          `{"id":10,"chain":{"species":{"name":"pikachu","url":"SRV/pokemon-species/25/"},"evolves_to":[{"species":{"name":"raichu","url":"SRV/pokemon-species/26/"},"evolution_details":[{"trigger":{"name":"use-item"},"item":{"name":"thunder-stone"}}],"evolves_to":[]}]}}`,
		"/pokemon/?limit=2&offset=2":    `{"count":4,"results":[{"name":"pikachu"},{"name":"raichu"}]}`,
		"/pokemon/?limit=2000&offset=0": `{"count":2,"results":[{"name":"pikachu"},{"name":"raichu"}]}`,
		"/move/thunderbolt/":            `{"id":85,"name":"thunderbolt","power":90,"type":{"name":"electric"},"machines":[{"machine":{"url":"SRV/machine/24/"},"version_group":{"name":"red-blue"}}]}`,
		"/machine/24/":                  `{"id":24,"item":{"name":"tm24"},"version_group":{"name":"red-blue"}}`,
	}
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := routes[key]
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "SRV", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetText(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "get", "Pikachu")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, want := range []string{"pikachu", "electric", "25"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGetJSON(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "-o", "json", "get", "pikachu")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var p struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if p.ID != 25 || p.Name != "pikachu" {
		t.Errorf("got %+v, want pikachu #25", p)
	}
}

func TestGetNotFound(t *testing.T) {
	srv := newUpstream(t)
	if _, err := run(t, "--base-url", srv.URL, "get", "missingno"); err == nil {
		t.Fatal("expected error for unknown pokemon")
	}
}

func TestInvalidOutput(t *testing.T) {
	if _, err := run(t, "-o", "xml", "version"); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestList(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "list", "--page", "2", "--limit", "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "raichu") {
		t.Errorf("unexpected list output:\n%s", out)
	}
	if !strings.Contains(out, "2 of 4") {
		t.Errorf("missing totals line:\n%s", out)
	}
}

func TestSearch(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "search", "rai")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "raichu") || strings.Contains(out, "pikachu") {
		t.Errorf("unexpected search output:\n%s", out)
	}

	out, err = run(t, "--base-url", srv.URL, "search", "zzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "no pokemon match") {
		t.Errorf("unexpected empty search output:\n%s", out)
	}
}

func TestEvolution(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "evolution", "pikachu")
	if err != nil {
		t.Fatalf("evolution: %v", err)
	}
	if !strings.Contains(out, "  raichu (use-item, thunder-stone)") {
		t.Errorf("missing indented child stage:\n%s", out)
	}
	if !strings.Contains(out, "depth 2") {
		t.Errorf("missing depth summary:\n%s", out)
	}
}

func TestMoveWithMachine(t *testing.T) {
	srv := newUpstream(t)
	out, err := run(t, "--base-url", srv.URL, "move", "thunderbolt", "--version-group", "red-blue")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(out, "tm24") || !strings.Contains(out, "90") {
		t.Errorf("unexpected move output:\n%s", out)
	}

	if _, err := run(t, "--base-url", srv.URL, "move", "thunderbolt", "--version-group", "gold-silver"); err == nil {
		t.Error("expected error when no machine teaches the move")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("upstream:\n  base_url: https://pokeapi.co/api/v2\ncache:\n  ttl: 1m\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "config is valid") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cache:\n  ttl: forever\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "validate", bad); err == nil {
		t.Error("expected error for invalid ttl")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "pokedex dev") {
		t.Errorf("version output = %q", out)
	}
}
