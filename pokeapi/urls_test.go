package pokeapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://PokeAPI.co/api/v2/pokemon/25/", "https://pokeapi.co/api/v2/pokemon/25/"},
		{"adds trailing slash", "https://pokeapi.co/api/v2/pokemon/25", "https://pokeapi.co/api/v2/pokemon/25/"},
		{"sorts query", "https://pokeapi.co/api/v2/pokemon/?offset=0&limit=20", "https://pokeapi.co/api/v2/pokemon/?limit=20&offset=0"},
		{"slash before query", "https://pokeapi.co/api/v2/pokemon?limit=20&offset=40", "https://pokeapi.co/api/v2/pokemon/?limit=20&offset=40"},
		{"drops fragment", "https://pokeapi.co/api/v2/move/1/#top", "https://pokeapi.co/api/v2/move/1/"},
		{"trims whitespace", "  https://pokeapi.co/api/v2/machine/7/ ", "https://pokeapi.co/api/v2/machine/7/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeURL(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	keys := []string{
		ResourceURL(DefaultBaseURL, ResourcePokemon, "Pikachu"),
		ListURL(DefaultBaseURL, ResourcePokemon, 20, 0),
		CollectionURL(DefaultBaseURL, ResourceMachine),
	}
	for _, k := range keys {
		got, err := NormalizeURL(k)
		require.NoError(t, err)
		assert.Equal(t, k, got, "builder output must already be canonical")
	}
}

func TestNormalizeURL_RejectsRelative(t *testing.T) {
	_, err := NormalizeURL("/api/v2/pokemon/1/")
	assert.True(t, errors.Is(err, ErrRelativeURL), "got %v", err)

	_, err = NormalizeURL("")
	assert.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := NormalizeBaseURL("HTTPS://PokeAPI.co/api/v2/")
	require.NoError(t, err)
	assert.Equal(t, "https://pokeapi.co/api/v2", got)

	_, err = NormalizeBaseURL("pokeapi.co")
	assert.Error(t, err)
}

func TestBuilders(t *testing.T) {
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/pikachu/", ResourceURL(DefaultBaseURL, ResourcePokemon, " Pikachu "))
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon-species/133/", ResourceURL(DefaultBaseURL, ResourceSpecies, "133"))
	assert.Equal(t, "https://pokeapi.co/api/v2/pokemon/?limit=20&offset=0", ListURL(DefaultBaseURL, ResourcePokemon, 20, 0))
	assert.NotEqual(t, ListURL(DefaultBaseURL, ResourcePokemon, 20, 0), ListURL(DefaultBaseURL, ResourcePokemon, 20, 20))
	assert.Equal(t, "https://pokeapi.co/api/v2/machine/", CollectionURL(DefaultBaseURL, ResourceMachine))
}
