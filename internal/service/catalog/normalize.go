package catalog

import (
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/internal/util"
)

// DetailExtras carries the fields only a detail aggregation produces.
type DetailExtras struct {
	Description    string
	Genus          string
	Habitat        string
	Generation     string
	EvolutionChain []domain.EvolutionStep
	IsBaby         bool
	IsLegendary    bool
	IsMythical     bool
}

// Normalize converts a validated raw record into the canonical Pokemon.
// It must be given the record exactly as the API returned it: height and
// weight are divided by ten here. A nil extras yields list-level defaults.
func Normalize(raw *pokeapi.RawPokemon, extras *DetailExtras) *domain.Pokemon {
	if extras == nil {
		extras = &DetailExtras{}
	}

	types := make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		types = append(types, t.Type.Name)
	}

	abilities := make([]string, 0, len(raw.Abilities))
	for _, a := range raw.Abilities {
		abilities = append(abilities, a.Ability.Name)
	}

	chain := extras.EvolutionChain
	if chain == nil {
		chain = []domain.EvolutionStep{}
	}

	return &domain.Pokemon{
		ID:              raw.ID,
		Name:            raw.Name,
		Image:           stringAt(raw.Sprites, "front_default"),
		Types:           types,
		Height:          float64(raw.Height) / 10,
		Weight:          float64(raw.Weight) / 10,
		Abilities:       abilities,
		Stats:           normalizeStats(raw.Stats),
		Sprites:         raw.Sprites,
		AnimatedSprites: mapAt(raw.Sprites, "versions", "generation-v", "black-white", "animated"),
		Description:     extras.Description,
		Genus:           extras.Genus,
		Habitat:         extras.Habitat,
		Generation:      extras.Generation,
		EvolutionChain:  chain,
		IsBaby:          extras.IsBaby,
		IsLegendary:     extras.IsLegendary,
		IsMythical:      extras.IsMythical,
	}
}

func normalizeStats(stats []pokeapi.PokemonStat) map[string]int {
	out := make(map[string]int, len(stats))
	for _, s := range stats {
		out[util.HyphenToCamel(s.Stat.Name)] = s.BaseStat
	}
	return out
}

func mapAt(m map[string]any, path ...string) map[string]any {
	cur := m
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
