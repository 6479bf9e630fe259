package pokeapi

import (
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Resource struct {
	URL string `json:"url"`
}

type NamedResourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
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

// RawPokemon is the /pokemon/{id or name} record. Height and weight are in
// decimetres and hectograms.
type RawPokemon struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Height    int              `json:"height"`
	Weight    int              `json:"weight"`
	Types     []PokemonType    `json:"types"`
	Abilities []PokemonAbility `json:"abilities"`
	Stats     []PokemonStat    `json:"stats"`
	Sprites   map[string]any   `json:"sprites"`
	Species   NamedResource    `json:"species"`
}

// Validate checks the fields every downstream transformation relies on.
func (r *RawPokemon) Validate() error {
	if r == nil {
		return errors.NewValidationError("pokemon record is nil", "pokemon", nil)
	}
	if r.ID <= 0 {
		return errors.NewValidationError("pokemon record has no positive id", "id", r.ID)
	}
	if r.Name == "" {
		return errors.NewValidationError("pokemon record has no name", "name", r.Name)
	}
	return nil
}

type FlavorTextEntry struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// RawSpecies is the /pokemon-species/{id} record.
type RawSpecies struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
	Genera            []Genus           `json:"genera"`
	EvolutionChain    *Resource         `json:"evolution_chain"`
	IsBaby            bool              `json:"is_baby"`
	IsLegendary       bool              `json:"is_legendary"`
	IsMythical        bool              `json:"is_mythical"`
	Habitat           *NamedResource    `json:"habitat"`
	Generation        *NamedResource    `json:"generation"`
}

type EvolutionDetail struct {
	MinLevel *int           `json:"min_level"`
	Trigger  *NamedResource `json:"trigger"`
	Item     *NamedResource `json:"item"`
}

type ChainLink struct {
	IsBaby           bool              `json:"is_baby"`
	Species          NamedResource     `json:"species"`
	EvolutionDetails []EvolutionDetail `json:"evolution_details"`
	EvolvesTo        []*ChainLink      `json:"evolves_to"`
}

// RawEvolutionChain is the /evolution-chain/{id} record.
type RawEvolutionChain struct {
	ID    int        `json:"id"`
	Chain *ChainLink `json:"chain"`
}
