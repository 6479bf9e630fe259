package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kapu/pokedex-catalog-go/internal/app"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
)

var listPage int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search by name or number",
	Long:  "Exact lookup by number or name, falling back to scanning the start of the catalog.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry with species details and evolution chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one catalog page",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the elemental types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "1-based page number")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(true)
	if err != nil {
		return err
	}
	_, svc := app.NewCatalogService(cfg, logger)

	results, err := svc.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return writeOutput(os.Stdout, outputFormat, summarize(results))
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("id must be a positive integer, got %q", args[0])
	}

	cfg, logger, err := loadConfig(true)
	if err != nil {
		return err
	}
	_, svc := app.NewCatalogService(cfg, logger)

	pokemon, err := svc.FetchDetail(cmd.Context(), id)
	if err != nil {
		return err
	}
	return writeOutput(os.Stdout, outputFormat, newDetailView(pokemon))
}

func runList(cmd *cobra.Command, args []string) error {
	if listPage < 1 {
		return fmt.Errorf("page must be at least 1")
	}

	cfg, logger, err := loadConfig(true)
	if err != nil {
		return err
	}
	_, svc := app.NewCatalogService(cfg, logger)

	offset := (listPage - 1) * cfg.Catalog.PageSize
	page, err := svc.FetchPage(cmd.Context(), cfg.Catalog.PageSize, offset)
	if err != nil {
		return err
	}
	return writeOutput(os.Stdout, outputFormat, summarize(page))
}

func runTypes(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(true)
	if err != nil {
		return err
	}
	_, svc := app.NewCatalogService(cfg, logger)

	types, err := svc.ListTypes(cmd.Context())
	if err != nil {
		return err
	}
	return writeOutput(os.Stdout, outputFormat, types)
}

type summaryView struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Types []string `json:"types" yaml:"types"`
}

func summarize(items []*domain.Pokemon) []summaryView {
	out := make([]summaryView, 0, len(items))
	for _, p := range items {
		out = append(out, summaryView{ID: p.DisplayID(), Name: p.DisplayName(), Types: p.Types})
	}
	return out
}

type evolutionView struct {
	Name    string  `json:"name" yaml:"name"`
	Level   *int    `json:"level,omitempty" yaml:"level,omitempty"`
	Trigger *string `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Item    *string `json:"item,omitempty" yaml:"item,omitempty"`
}

type detailView struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Genus       string          `json:"genus,omitempty" yaml:"genus,omitempty"`
	Types       []string        `json:"types" yaml:"types"`
	Height      float64         `json:"height" yaml:"height"`
	Weight      float64         `json:"weight" yaml:"weight"`
	Abilities   []string        `json:"abilities" yaml:"abilities"`
	Stats       map[string]int  `json:"stats" yaml:"stats"`
	Description string          `json:"description" yaml:"description"`
	Habitat     string          `json:"habitat,omitempty" yaml:"habitat,omitempty"`
	Generation  string          `json:"generation,omitempty" yaml:"generation,omitempty"`
	Evolution   []evolutionView `json:"evolution" yaml:"evolution"`
}

func newDetailView(p *domain.Pokemon) detailView {
	evolution := make([]evolutionView, 0, len(p.EvolutionChain))
	for _, step := range p.EvolutionChain {
		evolution = append(evolution, evolutionView{
			Name:    domain.FormatName(step.Name),
			Level:   step.Level,
			Trigger: step.Trigger,
			Item:    step.Item,
		})
	}
	return detailView{
		ID:          p.DisplayID(),
		Name:        p.DisplayName(),
		Genus:       p.Genus,
		Types:       p.Types,
		Height:      p.Height,
		Weight:      p.Weight,
		Abilities:   p.Abilities,
		Stats:       p.Stats,
		Description: p.Description,
		Habitat:     p.Habitat,
		Generation:  p.Generation,
		Evolution:   evolution,
	}
}
