package catalog

import (
	"regexp"
	"strconv"

	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/internal/util"
)

var trailingIDPattern = regexp.MustCompile(`/(\d+)/?$`)

// IDFromURL extracts the numeric id PokeAPI puts at the end of resource URLs.
// It returns 0 when there is none.
func IDFromURL(rawURL string) int {
	m := trailingIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

// ExtractEvolutionChain flattens an evolution tree in pre-order. Every step
// carries the first evolution condition of the edge that leads into it; the
// root's are left nil.
func ExtractEvolutionChain(root *pokeapi.ChainLink) []domain.EvolutionStep {
	steps := []domain.EvolutionStep{}
	if root == nil {
		return steps
	}

	children := func(link *pokeapi.ChainLink) []*pokeapi.ChainLink {
		if link == nil {
			return nil
		}
		return link.EvolvesTo
	}

	util.WalkPreorder(root, children, func(link *pokeapi.ChainLink, depth int) {
		if link == nil {
			return
		}
		step := domain.EvolutionStep{
			ID:   IDFromURL(link.Species.URL),
			Name: link.Species.Name,
		}
		if depth > 0 && len(link.EvolutionDetails) > 0 {
			applyCondition(&step, link.EvolutionDetails[0])
		}
		steps = append(steps, step)
	})

	return steps
}

func applyCondition(step *domain.EvolutionStep, detail pokeapi.EvolutionDetail) {
	if detail.MinLevel != nil && *detail.MinLevel > 0 {
		level := *detail.MinLevel
		step.Level = &level
	}
	if detail.Trigger != nil && detail.Trigger.Name != "" {
		trigger := detail.Trigger.Name
		step.Trigger = &trigger
	}
	if detail.Item != nil && detail.Item.Name != "" {
		item := detail.Item.Name
		step.Item = &item
	}
}
