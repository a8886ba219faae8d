package pokedex

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/pokeapi"
)

// EvolutionNode is one hydrated stage of an evolution family.
type EvolutionNode struct {
	Pokemon      *pokeapi.Pokemon       `json:"pokemon"`
	Requirements *EvolutionRequirements `json:"requirements,omitempty"`
	EvolvesTo    []*EvolutionNode       `json:"evolves_to"`
}

// EvolutionRequirements summarizes the first set of conditions of an
// evolution step. Conditions that are unset upstream are left zero.
type EvolutionRequirements struct {
	Trigger               string `json:"trigger,omitempty"`
	MinLevel              int    `json:"min_level,omitempty"`
	Item                  string `json:"item,omitempty"`
	HeldItem              string `json:"held_item,omitempty"`
	TimeOfDay             string `json:"time_of_day,omitempty"`
	Location              string `json:"location,omitempty"`
	MinHappiness          int    `json:"min_happiness,omitempty"`
	MinBeauty             int    `json:"min_beauty,omitempty"`
	MinAffection          int    `json:"min_affection,omitempty"`
	Gender                int    `json:"gender,omitempty"`
	KnownMove             string `json:"known_move,omitempty"`
	KnownMoveType         string `json:"known_move_type,omitempty"`
	PartySpecies          string `json:"party_species,omitempty"`
	PartyType             string `json:"party_type,omitempty"`
	TradeSpecies          string `json:"trade_species,omitempty"`
	RelativePhysicalStats *int   `json:"relative_physical_stats,omitempty"`
	NeedsOverworldRain    bool   `json:"needs_overworld_rain,omitempty"`
	TurnUpsideDown        bool   `json:"turn_upside_down,omitempty"`
}

// Evolution is a fully hydrated evolution family with derived shape
// information.
type Evolution struct {
	ChainID   int                `json:"chain_id"`
	Root      *EvolutionNode     `json:"root"`
	Flat      []*pokeapi.Pokemon `json:"flat"`
	Depth     int                `json:"depth"`
	Branching bool               `json:"branching"`
	Complex   bool               `json:"complex"`
}

// Evolution resolves the evolution family of a pokemon: pokemon, then its
// species, then the chain linked from the species, then every stage of the
// chain. Stages are fetched concurrently. A stage that fails to load is
// dropped along with its descendants; only a failed root fails the call.
func (c *Client) Evolution(ctx context.Context, nameOrID string) (*Evolution, error) {
	p, err := c.GetPokemon(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	species, err := c.SpeciesOf(ctx, p)
	if err != nil {
		return nil, err
	}
	if species.EvolutionChain.URL == "" {
		return nil, fmt.Errorf("species %q has no evolution chain", species.Name)
	}
	chain, err := c.GetEvolutionChain(ctx, species.EvolutionChain.URL)
	if err != nil {
		return nil, err
	}

	root, err := c.buildNode(ctx, chain.Chain)
	if err != nil {
		return nil, fmt.Errorf("building evolution tree for %s: %w", chain.Chain.Species.Name, err)
	}

	depth := root.Depth()
	branching := root.Branching()
	return &Evolution{
		ChainID:   chain.ID,
		Root:      root,
		Flat:      root.Flatten(),
		Depth:     depth,
		Branching: branching,
		Complex:   branching || depth > 2,
	}, nil
}

func (c *Client) buildNode(ctx context.Context, link pokeapi.ChainLink) (*EvolutionNode, error) {
	id, ok := pokeapi.ExtractID(link.Species.URL)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, link.Species.URL)
	}
	p, err := c.GetPokemon(ctx, strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	children := make([]*EvolutionNode, len(link.EvolvesTo))
	var g errgroup.Group
	for i, next := range link.EvolvesTo {
		g.Go(func() error {
			n, err := c.buildNode(ctx, next)
			if err != nil {
				logging.FromContext(ctx).Warn("skipping evolution branch",
					"species", next.Species.Name, "error", err.Error())
				return nil
			}
			children[i] = n
			return nil
		})
	}
	_ = g.Wait()

	node := &EvolutionNode{
		Pokemon:      p,
		Requirements: requirementsOf(link.EvolutionDetails),
		EvolvesTo:    make([]*EvolutionNode, 0, len(children)),
	}
	for _, n := range children {
		if n != nil {
			node.EvolvesTo = append(node.EvolvesTo, n)
		}
	}
	return node, nil
}

func requirementsOf(details []pokeapi.EvolutionDetail) *EvolutionRequirements {
	if len(details) == 0 {
		return nil
	}
	d := details[0]
	return &EvolutionRequirements{
		Trigger:               d.Trigger.Name,
		MinLevel:              intValue(d.MinLevel),
		Item:                  nameOf(d.Item),
		HeldItem:              nameOf(d.HeldItem),
		TimeOfDay:             d.TimeOfDay,
		Location:              nameOf(d.Location),
		MinHappiness:          intValue(d.MinHappiness),
		MinBeauty:             intValue(d.MinBeauty),
		MinAffection:          intValue(d.MinAffection),
		Gender:                intValue(d.Gender),
		KnownMove:             nameOf(d.KnownMove),
		KnownMoveType:         nameOf(d.KnownMoveType),
		PartySpecies:          nameOf(d.PartySpecies),
		PartyType:             nameOf(d.PartyType),
		TradeSpecies:          nameOf(d.TradeSpecies),
		RelativePhysicalStats: d.RelativePhysicalStats,
		NeedsOverworldRain:    d.NeedsOverworldRain,
		TurnUpsideDown:        d.TurnUpsideDown,
	}
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func nameOf(r *pokeapi.NamedResource) string {
	if r == nil {
		return ""
	}
	return r.Name
}

// Flatten lists the stages depth-first, parents before children.
func (n *EvolutionNode) Flatten() []*pokeapi.Pokemon {
	out := []*pokeapi.Pokemon{n.Pokemon}
	for _, child := range n.EvolvesTo {
		out = append(out, child.Flatten()...)
	}
	return out
}

// Depth is the number of stages on the longest path from n, counting n.
func (n *EvolutionNode) Depth() int {
	deepest := 0
	for _, child := range n.EvolvesTo {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// Branching reports whether any stage from n evolves in more than one way.
func (n *EvolutionNode) Branching() bool {
	if len(n.EvolvesTo) > 1 {
		return true
	}
	for _, child := range n.EvolvesTo {
		if child.Branching() {
			return true
		}
	}
	return false
}
