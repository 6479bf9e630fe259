package domain

import (
	"fmt"
	"slices"

	"github.com/kapu/pokedex-catalog-go/internal/util"
)

// Pokemon is the canonical creature record. Values are never mutated after
// construction; collections share pointers to them.
type Pokemon struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Image           string          `json:"image,omitempty"`
	Types           []string        `json:"types"`
	Height          float64         `json:"height"`
	Weight          float64         `json:"weight"`
	Abilities       []string        `json:"abilities"`
	Stats           map[string]int  `json:"stats"`
	Sprites         map[string]any  `json:"sprites,omitempty"`
	AnimatedSprites map[string]any  `json:"animated,omitempty"`
	Description     string          `json:"description"`
	Genus           string          `json:"genus,omitempty"`
	Habitat         string          `json:"habitat"`
	Generation      string          `json:"generation"`
	EvolutionChain  []EvolutionStep `json:"evolutionChain"`
	IsBaby          bool            `json:"isBaby"`
	IsLegendary     bool            `json:"isLegendary"`
	IsMythical      bool            `json:"isMythical"`
}

// EvolutionStep is one species of an evolution line together with the
// condition that leads to it from its predecessor (all nil for the root).
type EvolutionStep struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Level   *int    `json:"level"`
	Trigger *string `json:"trigger"`
	Item    *string `json:"item"`
}

// HasAnyType reports whether p carries any of the given type tags.
func (p *Pokemon) HasAnyType(types []string) bool {
	for _, t := range types {
		if slices.Contains(p.Types, t) {
			return true
		}
	}
	return false
}

// DisplayName is the capitalized name ("pikachu" -> "Pikachu").
func (p *Pokemon) DisplayName() string {
	return FormatName(p.Name)
}

// DisplayID is the zero-padded catalog number ("#025").
func (p *Pokemon) DisplayID() string {
	return FormatID(p.ID)
}

func FormatName(name string) string {
	return util.Capitalize(name)
}

func FormatID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// DedupByID keeps the first occurrence of every id, preserving order.
// The second return value lists the ids that were dropped.
func DedupByID(items []*Pokemon) ([]*Pokemon, []int) {
	seen := make(map[int]struct{}, len(items))
	unique := make([]*Pokemon, 0, len(items))
	var dropped []int

	for _, p := range items {
		if p == nil {
			continue
		}
		if _, exists := seen[p.ID]; exists {
			dropped = append(dropped, p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		unique = append(unique, p)
	}

	return unique, dropped
}
