package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/util"
)

// Catalog is the part of the aggregation service the store drives.
type Catalog interface {
	FetchPage(ctx context.Context, limit, offset int) ([]*domain.Pokemon, error)
	Search(ctx context.Context, query string) ([]*domain.Pokemon, error)
}

// Store owns the accumulated catalog, the active search and the filter
// criteria, and keeps a derived view of them up to date. Network calls run
// without the lock held.
type Store struct {
	catalog   Catalog
	pageSize  int
	logger    *zap.Logger
	debouncer *util.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	entities      []*domain.Pokemon
	index         map[int]struct{}
	cursor        int
	hasMore       bool
	initialDone   bool
	pageInFlight  bool
	searchTerm    string
	searchActive  bool
	searchLoading bool
	searchResults []*domain.Pokemon
	searchToken   uint64
	criteria      domain.Criteria
	view          []*domain.Pokemon
	err           error
}

func New(catalog Catalog, pageSize int, logger *zap.Logger) *Store {
	if pageSize <= 0 {
		pageSize = constants.Catalog.PageSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		catalog:   catalog,
		pageSize:  pageSize,
		logger:    logger,
		debouncer: util.NewDebouncer(constants.Search.Debounce),
		ctx:       ctx,
		cancel:    cancel,
		index:     make(map[int]struct{}),
		hasMore:   true,
		criteria:  domain.DefaultCriteria(),
		view:      []*domain.Pokemon{},
	}
}

// LoadInitial fetches the first page. Once it has succeeded further calls do
// nothing; after a failure it may be called again.
func (s *Store) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	if s.initialDone || s.pageInFlight {
		s.mu.Unlock()
		return nil
	}
	s.pageInFlight = true
	s.err = nil
	s.mu.Unlock()

	page, err := s.catalog.FetchPage(ctx, s.pageSize, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageInFlight = false

	if err != nil {
		s.err = err
		s.logger.Error("Initial load failed", zap.Error(err))
		return err
	}

	s.mergeLocked(page)
	s.cursor = s.pageSize
	s.hasMore = len(page) == s.pageSize
	s.initialDone = true
	s.deriveLocked()

	s.logger.Info("Initial page loaded",
		zap.Int("count", len(page)),
		zap.Bool("has_more", s.hasMore),
	)
	return nil
}

// LoadMore appends the next page. It does nothing while another page is
// loading, when the catalog is exhausted or while a search is active.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if !s.initialDone && !s.pageInFlight {
		s.mu.Unlock()
		return s.LoadInitial(ctx)
	}
	if s.pageInFlight || !s.hasMore || s.searchActive {
		s.mu.Unlock()
		return nil
	}
	s.pageInFlight = true
	s.err = nil
	offset := s.cursor
	s.mu.Unlock()

	page, err := s.catalog.FetchPage(ctx, s.pageSize, offset)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageInFlight = false

	if err != nil {
		s.err = err
		s.logger.Error("Loading next page failed", zap.Int("offset", offset), zap.Error(err))
		return err
	}

	added := s.mergeLocked(page)
	s.cursor = offset + s.pageSize
	s.hasMore = len(page) == s.pageSize
	s.deriveLocked()

	s.logger.Debug("Page merged",
		zap.Int("offset", offset),
		zap.Int("added", added),
		zap.Int("total", len(s.entities)),
	)
	return nil
}

// Search switches the view to the results for term. A blank term clears
// search mode. Only the most recent call's outcome is ever applied.
func (s *Store) Search(ctx context.Context, term string) error {
	trimmed := strings.TrimSpace(term)

	s.mu.Lock()
	s.searchToken++
	token := s.searchToken

	if trimmed == "" {
		s.clearSearchLocked()
		s.mu.Unlock()
		return nil
	}

	s.searchTerm = trimmed
	s.searchActive = true
	s.searchLoading = true
	s.searchResults = nil
	s.err = nil
	s.deriveLocked()
	s.mu.Unlock()

	results, err := s.catalog.Search(ctx, trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.searchToken {
		s.logger.Debug("Discarding stale search result", zap.String("term", trimmed))
		return nil
	}
	s.searchLoading = false

	if err != nil {
		s.err = err
		s.deriveLocked()
		s.logger.Warn("Search failed", zap.String("term", trimmed), zap.Error(err))
		return err
	}

	unique, _ := domain.DedupByID(results)
	s.searchResults = unique
	s.deriveLocked()
	return nil
}

// ScheduleSearch runs Search for term once input has been quiet for the
// debounce period. A blank term clears search mode immediately.
func (s *Store) ScheduleSearch(term string) {
	if strings.TrimSpace(term) == "" {
		s.debouncer.Cancel()
		_ = s.Search(s.ctx, "")
		return
	}

	s.debouncer.Trigger(func() {
		if err := s.Search(s.ctx, term); err != nil {
			s.logger.Debug("Scheduled search failed", zap.String("term", term), zap.Error(err))
		}
	})
}

func (s *Store) ApplyCriteria(patch domain.CriteriaPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = s.criteria.Merge(patch)
	s.deriveLocked()
	return nil
}

func (s *Store) ResetCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = domain.DefaultCriteria()
	s.deriveLocked()
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Close cancels any scheduled search and the searches it started.
func (s *Store) Close() error {
	s.debouncer.Cancel()
	s.cancel()
	return nil
}

func (s *Store) statusLocked() Status {
	switch {
	case s.err != nil:
		return Status{Kind: StatusError, Err: s.err}
	case s.searchLoading:
		return Status{Kind: StatusSearching}
	case s.pageInFlight && !s.initialDone:
		return Status{Kind: StatusLoadingInitial}
	case s.pageInFlight:
		return Status{Kind: StatusLoadingMore}
	default:
		return Status{Kind: StatusIdle}
	}
}

func (s *Store) clearSearchLocked() {
	s.searchTerm = ""
	s.searchActive = false
	s.searchLoading = false
	s.searchResults = nil
	s.deriveLocked()
}

// mergeLocked appends the entities whose id is not yet known and returns
// how many were added.
func (s *Store) mergeLocked(page []*domain.Pokemon) int {
	added := 0
	for _, p := range page {
		if p == nil {
			continue
		}
		if _, exists := s.index[p.ID]; exists {
			continue
		}
		s.index[p.ID] = struct{}{}
		s.entities = append(s.entities, p)
		added++
	}
	return added
}

// deriveLocked recomputes the view: basis, dedup, name filter (entity basis
// only), type filter, id range, sort.
func (s *Store) deriveLocked() {
	basis := s.entities
	fromEntities := true
	if s.searchActive && s.searchResults != nil {
		basis = s.searchResults
		fromEntities = false
	}

	view, _ := domain.DedupByID(basis)

	if fromEntities && s.searchTerm != "" {
		term := strings.ToLower(s.searchTerm)
		view = slices.DeleteFunc(view, func(p *domain.Pokemon) bool {
			return !strings.Contains(strings.ToLower(p.Name), term)
		})
	}

	if len(s.criteria.Types) > 0 {
		view = slices.DeleteFunc(view, func(p *domain.Pokemon) bool {
			return !p.HasAnyType(s.criteria.Types)
		})
	}

	view = slices.DeleteFunc(view, func(p *domain.Pokemon) bool {
		return p.ID < s.criteria.MinID || p.ID > s.criteria.MaxID
	})

	desc := s.criteria.SortOrder == domain.SortDescending
	slices.SortStableFunc(view, func(a, b *domain.Pokemon) int {
		if desc {
			return b.ID - a.ID
		}
		return a.ID - b.ID
	})

	s.view = view
}
