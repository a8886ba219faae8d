package pokedex

import (
	"context"
	"fmt"
	"testing"
)

// species registers a species pointing at chain.
func (f *fakeAPI) species(id int, name string, chain int) {
	f.set(fmt.Sprintf("/pokemon-species/%d/", id), fmt.Sprintf(
		`{"id":%d,"name":%q,"evolution_chain":{"url":"%s/evolution-chain/%d/"}}`, id, name, f.srv.URL, chain))
}

func (f *fakeAPI) link(id int, name, evolvesTo string) string {
	return fmt.Sprintf(`{"species":{"name":%q,"url":"%s/pokemon-species/%d/"},"evolution_details":[],"evolves_to":[%s]}`,
		name, f.srv.URL, id, evolvesTo)
}

func TestEvolution_Linear(t *testing.T) {
	f := newFakeAPI(t)
	f.pokemon(1, "bulbasaur")
	f.pokemon(2, "ivysaur")
	f.pokemon(3, "venusaur")
	f.species(1, "bulbasaur", 1)
	venusaur := f.link(3, "venusaur", "")
	ivysaur := fmt.Sprintf(`{"species":{"name":"ivysaur","url":"%s/pokemon-species/2/"},
		"evolution_details":[{"trigger":{"name":"level-up"},"min_level":16,"item":null}],
		"evolves_to":[%s]}`, f.srv.URL, venusaur)
	f.set("/evolution-chain/1/", fmt.Sprintf(`{"id":1,"chain":%s}`, f.link(1, "bulbasaur", ivysaur)))
	c := newTestClient(t, f)

	evo, err := c.Evolution(context.Background(), "bulbasaur")
	if err != nil {
		t.Fatalf("Evolution: %v", err)
	}
	if evo.Depth != 3 || evo.Branching || !evo.Complex {
		t.Errorf("depth=%d branching=%v complex=%v", evo.Depth, evo.Branching, evo.Complex)
	}
	if got := names(evo.Flat); fmt.Sprint(got) != "[bulbasaur ivysaur venusaur]" {
		t.Errorf("flat = %v", got)
	}
	if evo.ChainID != 1 {
		t.Errorf("chain id = %d", evo.ChainID)
	}
	req := evo.Root.EvolvesTo[0].Requirements
	if req == nil || req.Trigger != "level-up" || req.MinLevel != 16 || req.Item != "" {
		t.Errorf("requirements = %+v", req)
	}
	if evo.Root.Requirements != nil {
		t.Errorf("root requirements = %+v, want nil", evo.Root.Requirements)
	}
}

func TestEvolution_BranchingSkipsFailedBranch(t *testing.T) {
	f := newFakeAPI(t)
	f.pokemon(133, "eevee")
	f.pokemon(134, "vaporeon")
	f.pokemon(135, "jolteon")
	f.species(133, "eevee", 67)
	// 999 has no pokemon record, so that branch fails and is dropped.
	branches := f.link(134, "vaporeon", "") + "," + f.link(999, "glitch", "") + "," + f.link(135, "jolteon", "")
	f.set("/evolution-chain/67/", fmt.Sprintf(`{"id":67,"chain":%s}`, f.link(133, "eevee", branches)))
	c := newTestClient(t, f)

	evo, err := c.Evolution(context.Background(), "133")
	if err != nil {
		t.Fatalf("Evolution: %v", err)
	}
	if got := names(evo.Flat); fmt.Sprint(got) != "[eevee vaporeon jolteon]" {
		t.Errorf("flat = %v", got)
	}
	if evo.Depth != 2 || !evo.Branching || !evo.Complex {
		t.Errorf("depth=%d branching=%v complex=%v", evo.Depth, evo.Branching, evo.Complex)
	}
}

func TestEvolution_SimpleChainIsNotComplex(t *testing.T) {
	f := newFakeAPI(t)
	f.pokemon(172, "pichu")
	f.pokemon(25, "pikachu")
	f.species(172, "pichu", 10)
	f.set("/evolution-chain/10/", fmt.Sprintf(`{"id":10,"chain":%s}`, f.link(172, "pichu", f.link(25, "pikachu", ""))))
	c := newTestClient(t, f)

	evo, err := c.Evolution(context.Background(), "pichu")
	if err != nil {
		t.Fatalf("Evolution: %v", err)
	}
	if evo.Depth != 2 || evo.Branching || evo.Complex {
		t.Errorf("depth=%d branching=%v complex=%v", evo.Depth, evo.Branching, evo.Complex)
	}
}

func TestEvolution_FailedRoot(t *testing.T) {
	f := newFakeAPI(t)
	f.pokemon(50, "diglett")
	f.species(50, "diglett", 27)
	// the chain root points at a species with no pokemon record
	f.set("/evolution-chain/27/", fmt.Sprintf(`{"id":27,"chain":%s}`, f.link(998, "nothing", "")))
	c := newTestClient(t, f)

	if _, err := c.Evolution(context.Background(), "diglett"); err == nil {
		t.Fatal("expected error when the root stage cannot be loaded")
	}
}

func TestEvolution_MissingChain(t *testing.T) {
	f := newFakeAPI(t)
	f.pokemon(151, "mew")
	f.set("/pokemon-species/151/", `{"id":151,"name":"mew","evolution_chain":{"url":""}}`)
	c := newTestClient(t, f)

	if _, err := c.Evolution(context.Background(), "mew"); err == nil {
		t.Fatal("expected error for species without chain")
	}
}
