package catalog

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/util"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

// Search resolves a free-text query. An exact lookup is tried first; only an
// upstream not-found falls back to scanning a fixed window of the index.
// A blank query returns an empty result without touching the network.
func (s *Service) Search(ctx context.Context, query string) ([]*domain.Pokemon, error) {
	term := util.Normalize(query)
	if term == "" {
		return []*domain.Pokemon{}, nil
	}

	if util.IsDigits(term) {
		return s.searchByID(ctx, query, term)
	}
	return s.searchByName(ctx, query, term)
}

func (s *Service) searchByID(ctx context.Context, query, term string) ([]*domain.Pokemon, error) {
	if id, err := strconv.Atoi(term); err == nil && id > 0 {
		pokemon, err := s.FetchDetail(ctx, id)
		if err == nil {
			return []*domain.Pokemon{pokemon}, nil
		}
		if !errors.IsNotFound(err) {
			return nil, s.searchFailure(query, err)
		}
		s.logger.Debug("Exact id not found, scanning id prefixes", zap.String("term", term))
	}

	page, err := s.FetchPage(ctx, constants.Search.IDPrefixWindow, 0)
	if err != nil {
		return nil, s.searchFailure(query, err)
	}

	matches := make([]*domain.Pokemon, 0)
	for _, p := range page {
		if strings.HasPrefix(strconv.Itoa(p.ID), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *Service) searchByName(ctx context.Context, query, term string) ([]*domain.Pokemon, error) {
	key := util.NormalizeKey(term)

	for _, candidate := range lookupCandidates(term, key) {
		raw, err := s.client.GetResource(ctx, candidate)
		if err == nil {
			if err := raw.Validate(); err != nil {
				return nil, err
			}
			return []*domain.Pokemon{Normalize(raw, nil)}, nil
		}
		if !errors.IsNotFound(err) {
			return nil, s.searchFailure(query, err)
		}
		s.logger.Debug("Exact name not found", zap.String("candidate", candidate))
	}

	page, err := s.FetchPage(ctx, constants.Search.NameWindow, 0)
	if err != nil {
		return nil, s.searchFailure(query, err)
	}

	matches := make([]*domain.Pokemon, 0)
	for _, p := range page {
		if nameMatches(p.Name, term, key) {
			matches = append(matches, p)
		}
	}

	slices.SortStableFunc(matches, func(a, b *domain.Pokemon) int {
		aPrefix := strings.HasPrefix(strings.ToLower(a.Name), term)
		bPrefix := strings.HasPrefix(strings.ToLower(b.Name), term)
		if aPrefix != bPrefix {
			if aPrefix {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	s.logger.Debug("Name scan finished",
		zap.String("term", term),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// lookupCandidates is the normalized key, then the raw term when it differs.
// A term with no key characters (".", "..", "/") is never sent as a path
// segment; it goes straight to the scan.
func lookupCandidates(term, key string) []string {
	if key == "" {
		return nil
	}
	candidates := []string{key}
	if term != key {
		candidates = append(candidates, term)
	}
	return candidates
}

func nameMatches(name, term, key string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, term) {
		return true
	}
	return key != "" && strings.Contains(util.NormalizeKey(lower), key)
}

func (s *Service) searchFailure(query string, err error) error {
	s.logger.Warn("Search failed", zap.String("query", query), zap.Error(err))
	if isValidation(err) {
		return err
	}
	return errors.NewSearchError("search failed", query, err)
}
