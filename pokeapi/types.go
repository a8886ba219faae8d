package pokeapi

// NamedResource is the upstream's cross-reference: a display name plus the
// absolute URL of the referenced resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// APIResource is an unnamed cross-reference.
type APIResource struct {
	URL string `json:"url"`
}

// ListResponse is one page of a named listing.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// MachineList is one page of the machine listing, whose entries are unnamed.
type MachineList struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []APIResource `json:"results"`
}

// Pokemon is the subset of /pokemon/{id} the client consumes.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	BaseExperience int              `json:"base_experience"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	Order          int              `json:"order"`
	IsDefault      bool             `json:"is_default"`
	Sprites        Sprites          `json:"sprites"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Species        NamedResource    `json:"species"`
	Moves          []PokemonMove    `json:"moves"`
}

// ImageURL returns the best available image URL, preferring the official
// artwork over the default front sprite.
func (p *Pokemon) ImageURL() string {
	if a := p.Sprites.Other.OfficialArtwork.FrontDefault; a != nil && *a != "" {
		return *a
	}
	if p.Sprites.FrontDefault != nil {
		return *p.Sprites.FrontDefault
	}
	return ""
}

// Sprites are nullable image URLs.
type Sprites struct {
	FrontDefault *string      `json:"front_default"`
	FrontShiny   *string      `json:"front_shiny"`
	BackDefault  *string      `json:"back_default"`
	BackShiny    *string      `json:"back_shiny"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites groups the alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork Artwork `json:"official-artwork"`
	DreamWorld      Artwork `json:"dream_world"`
	Home            Artwork `json:"home"`
}

// Artwork is a single alternate artwork set.
type Artwork struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny,omitempty"`
}

type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// PokemonMove is one learnable move with every version group it appears in.
type PokemonMove struct {
	Move                NamedResource       `json:"move"`
	VersionGroupDetails []MoveVersionDetail `json:"version_group_details"`
}

// MoveVersionDetail is how a move is learned in a single version group.
type MoveVersionDetail struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod NamedResource `json:"move_learn_method"`
	VersionGroup    NamedResource `json:"version_group"`
}

// Species is the subset of /pokemon-species/{id} the client consumes.
type Species struct {
	ID                 int              `json:"id"`
	Name               string           `json:"name"`
	Order              int              `json:"order"`
	IsBaby             bool             `json:"is_baby"`
	IsLegendary        bool             `json:"is_legendary"`
	IsMythical         bool             `json:"is_mythical"`
	EvolutionChain     APIResource      `json:"evolution_chain"`
	EvolvesFromSpecies *NamedResource   `json:"evolves_from_species"`
	Generation         NamedResource    `json:"generation"`
	Varieties          []SpeciesVariety `json:"varieties"`
	FlavorTextEntries  []FlavorText     `json:"flavor_text_entries"`
	Genera             []Genus          `json:"genera"`
}

type SpeciesVariety struct {
	IsDefault bool          `json:"is_default"`
	Pokemon   NamedResource `json:"pokemon"`
}

type FlavorText struct {
	FlavorText   string         `json:"flavor_text"`
	Language     NamedResource  `json:"language"`
	Version      *NamedResource `json:"version,omitempty"`
	VersionGroup *NamedResource `json:"version_group,omitempty"`
}

type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// EvolutionChain is the recursive evolution structure of a family.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// ChainLink is one species in a chain and the species it can evolve into.
type ChainLink struct {
	IsBaby           bool              `json:"is_baby"`
	Species          NamedResource     `json:"species"`
	EvolutionDetails []EvolutionDetail `json:"evolution_details"`
	EvolvesTo        []ChainLink       `json:"evolves_to"`
}

// EvolutionDetail is one set of conditions under which the evolution occurs.
// Unset conditions are null upstream.
type EvolutionDetail struct {
	Trigger               NamedResource  `json:"trigger"`
	MinLevel              *int           `json:"min_level"`
	MinHappiness          *int           `json:"min_happiness"`
	MinBeauty             *int           `json:"min_beauty"`
	MinAffection          *int           `json:"min_affection"`
	Gender                *int           `json:"gender"`
	RelativePhysicalStats *int           `json:"relative_physical_stats"`
	Item                  *NamedResource `json:"item"`
	HeldItem              *NamedResource `json:"held_item"`
	KnownMove             *NamedResource `json:"known_move"`
	KnownMoveType         *NamedResource `json:"known_move_type"`
	Location              *NamedResource `json:"location"`
	PartySpecies          *NamedResource `json:"party_species"`
	PartyType             *NamedResource `json:"party_type"`
	TradeSpecies          *NamedResource `json:"trade_species"`
	TimeOfDay             string         `json:"time_of_day"`
	NeedsOverworldRain    bool           `json:"needs_overworld_rain"`
	TurnUpsideDown        bool           `json:"turn_upside_down"`
}

// Move is the subset of /move/{id} the client consumes.
type Move struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	Accuracy          *int             `json:"accuracy"`
	EffectChance      *int             `json:"effect_chance"`
	PP                *int             `json:"pp"`
	Priority          int              `json:"priority"`
	Power             *int             `json:"power"`
	DamageClass       NamedResource    `json:"damage_class"`
	Type              NamedResource    `json:"type"`
	Target            NamedResource    `json:"target"`
	Generation        NamedResource    `json:"generation"`
	EffectEntries     []EffectEntry    `json:"effect_entries"`
	FlavorTextEntries []FlavorText     `json:"flavor_text_entries"`
	Machines          []MachineVersion `json:"machines"`
	Meta              *MoveMeta        `json:"meta"`
	StatChanges       []MoveStatChange `json:"stat_changes"`
	Names             []LocalizedName  `json:"names"`
}

type EffectEntry struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    NamedResource `json:"language"`
}

// MachineVersion links a move to the machine that teaches it in one
// version group.
type MachineVersion struct {
	Machine      APIResource   `json:"machine"`
	VersionGroup NamedResource `json:"version_group"`
}

type MoveMeta struct {
	Ailment       NamedResource `json:"ailment"`
	Category      NamedResource `json:"category"`
	MinHits       *int          `json:"min_hits"`
	MaxHits       *int          `json:"max_hits"`
	MinTurns      *int          `json:"min_turns"`
	MaxTurns      *int          `json:"max_turns"`
	Drain         int           `json:"drain"`
	Healing       int           `json:"healing"`
	CritRate      int           `json:"crit_rate"`
	AilmentChance int           `json:"ailment_chance"`
	FlinchChance  int           `json:"flinch_chance"`
	StatChance    int           `json:"stat_chance"`
}

type MoveStatChange struct {
	Change int           `json:"change"`
	Stat   NamedResource `json:"stat"`
}

type LocalizedName struct {
	Name     string        `json:"name"`
	Language NamedResource `json:"language"`
}

// Machine is a TM/HM record: the item that teaches a move in a version group.
type Machine struct {
	ID           int           `json:"id"`
	Item         NamedResource `json:"item"`
	Move         NamedResource `json:"move"`
	VersionGroup NamedResource `json:"version_group"`
}
