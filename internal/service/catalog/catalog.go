package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/pokeapi"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

// Operation names carried by FetchError.
const (
	OpFetchPage      = "fetch_page"
	OpFetchDetail    = "fetch_detail"
	OpFetchSpecies   = "fetch_species"
	OpFetchEvolution = "fetch_evolution_chain"
	OpListTypes      = "list_types"
)

// ResourceClient is the subset of the PokeAPI client the service needs.
type ResourceClient interface {
	ListResource(ctx context.Context, limit, offset int) (*pokeapi.NamedResourceList, error)
	GetResource(ctx context.Context, idOrName string) (*pokeapi.RawPokemon, error)
	GetByURL(ctx context.Context, rawURL string, dest any) error
	ListTypes(ctx context.Context) (*pokeapi.NamedResourceList, error)
}

type Service struct {
	client      ResourceClient
	locale      language.Tag
	fallback    language.Tag
	concurrency int
	logger      *zap.Logger
}

func NewService(client ResourceClient, locale string, logger *zap.Logger) *Service {
	if locale == "" {
		locale = constants.Catalog.DefaultLocale
	}
	return &Service{
		client:      client,
		locale:      language.Make(locale),
		fallback:    language.Make(constants.Catalog.FallbackLocale),
		concurrency: constants.Catalog.DetailConcurrency,
		logger:      logger,
	}
}

// FetchPage lists limit entries starting at offset and fetches every entry's
// record concurrently. The page succeeds or fails as a unit; the result keeps
// list order and holds at most one record per id.
func (s *Service) FetchPage(ctx context.Context, limit, offset int) ([]*domain.Pokemon, error) {
	s.logger.Debug("Fetching page",
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	list, err := s.client.ListResource(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list pokemon", zap.Int("offset", offset), zap.Error(err))
		return nil, errors.NewFetchError("failed to load pokemon list", OpFetchPage, err)
	}

	if len(list.Results) == 0 {
		return []*domain.Pokemon{}, nil
	}

	results := make([]*domain.Pokemon, len(list.Results))

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(s.concurrency)

	for idx, entry := range list.Results {
		p.Go(func(ctx context.Context) error {
			raw, err := s.client.GetResource(ctx, entry.Name)
			if err != nil {
				return fmt.Errorf("pokemon %q: %w", entry.Name, err)
			}
			if err := raw.Validate(); err != nil {
				return err
			}

			results[idx] = Normalize(raw, nil)
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		s.logger.Error("Failed to load page",
			zap.Int("offset", offset),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		if isValidation(err) {
			return nil, err
		}
		return nil, errors.NewFetchError("failed to load pokemon page", OpFetchPage, err)
	}

	unique, dropped := domain.DedupByID(results)
	if len(dropped) > 0 {
		s.logger.Warn("Duplicate ids in page",
			zap.Int("offset", offset),
			zap.Ints("ids", dropped),
		)
	}

	return unique, nil
}

// FetchDetail aggregates the pokemon, species and evolution chain resources
// for id into one enriched record.
func (s *Service) FetchDetail(ctx context.Context, id int) (*domain.Pokemon, error) {
	raw, err := s.client.GetResource(ctx, strconv.Itoa(id))
	if err != nil {
		s.logger.Warn("Failed to fetch pokemon", zap.Int("id", id), zap.Error(err))
		return nil, errors.NewFetchError("failed to load pokemon", OpFetchDetail, err)
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if raw.Species.URL == "" {
		return nil, errors.NewValidationError("pokemon record has no species reference", "species.url", raw.Species.URL)
	}

	var species pokeapi.RawSpecies
	if err := s.client.GetByURL(ctx, raw.Species.URL, &species); err != nil {
		s.logger.Warn("Failed to fetch species", zap.Int("id", id), zap.Error(err))
		if isValidation(err) {
			return nil, err
		}
		return nil, errors.NewFetchError("failed to load species", OpFetchSpecies, err)
	}

	chain := []domain.EvolutionStep{}
	if species.EvolutionChain != nil && species.EvolutionChain.URL != "" {
		var rawChain pokeapi.RawEvolutionChain
		if err := s.client.GetByURL(ctx, species.EvolutionChain.URL, &rawChain); err != nil {
			s.logger.Warn("Failed to fetch evolution chain", zap.Int("id", id), zap.Error(err))
			if isValidation(err) {
				return nil, err
			}
			return nil, errors.NewFetchError("failed to load evolution chain", OpFetchEvolution, err)
		}
		chain = ExtractEvolutionChain(rawChain.Chain)
	}

	extras := &DetailExtras{
		Description:    s.pickDescription(species.FlavorTextEntries),
		Genus:          s.pickGenus(species.Genera),
		Habitat:        resourceName(species.Habitat),
		Generation:     resourceName(species.Generation),
		EvolutionChain: chain,
		IsBaby:         species.IsBaby,
		IsLegendary:    species.IsLegendary,
		IsMythical:     species.IsMythical,
	}

	return Normalize(raw, extras), nil
}

// ListTypes returns the names of every elemental type the upstream knows.
func (s *Service) ListTypes(ctx context.Context) ([]string, error) {
	list, err := s.client.ListTypes(ctx)
	if err != nil {
		s.logger.Error("Failed to list types", zap.Error(err))
		return nil, errors.NewFetchError("failed to load types", OpListTypes, err)
	}

	names := make([]string, 0, len(list.Results))
	for _, t := range list.Results {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names, nil
}

// pickDescription takes the first flavor text in the configured locale, then
// English, then gives up. Control characters become spaces.
func (s *Service) pickDescription(entries []pokeapi.FlavorTextEntry) string {
	for _, tag := range s.localeOrder() {
		for _, entry := range entries {
			if language.Make(entry.Language.Name) == tag {
				return cleanFlavorText(entry.FlavorText)
			}
		}
	}
	return ""
}

func (s *Service) pickGenus(genera []pokeapi.Genus) string {
	for _, tag := range s.localeOrder() {
		for _, g := range genera {
			if language.Make(g.Language.Name) == tag {
				return g.Genus
			}
		}
	}
	return ""
}

func (s *Service) localeOrder() []language.Tag {
	if s.locale == s.fallback {
		return []language.Tag{s.locale}
	}
	return []language.Tag{s.locale, s.fallback}
}

var flavorTextReplacer = strings.NewReplacer(
	"\f", " ",
	"\n", " ",
	"\r", " ",
	"\v", " ",
)

func cleanFlavorText(text string) string {
	return flavorTextReplacer.Replace(text)
}

func resourceName(r *pokeapi.NamedResource) string {
	if r == nil {
		return ""
	}
	return r.Name
}

func isValidation(err error) bool {
	var validationErr *errors.ValidationError
	return stderrors.As(err, &validationErr)
}
