package store

import (
	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/domain"
	"github.com/kapu/pokedex-catalog-go/internal/util"
)

// Snapshot is a read-only copy of the store state for presentation.
type Snapshot struct {
	View          []*domain.Pokemon `json:"pokemon"`
	Loading       bool              `json:"loading"`
	LoadingMore   bool              `json:"loadingMore"`
	SearchLoading bool              `json:"searchLoading"`
	Error         string            `json:"error,omitempty"`
	HasMore       bool              `json:"hasMore"`
	SearchTerm    string            `json:"searchTerm"`
	SearchActive  bool              `json:"searchActive"`
	Criteria      domain.Criteria   `json:"criteria"`
	Total         int               `json:"total"`
	Status        Status            `json:"-"`
	StatusName    string            `json:"status"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.statusLocked()
	snap := Snapshot{
		View:          append([]*domain.Pokemon{}, s.view...),
		Loading:       s.pageInFlight && !s.initialDone,
		LoadingMore:   s.pageInFlight && s.initialDone,
		SearchLoading: s.searchLoading,
		HasMore:       s.hasMore && !s.searchActive,
		SearchTerm:    s.searchTerm,
		SearchActive:  s.searchActive,
		Criteria:      s.criteria.Clone(),
		Total:         len(s.entities),
		Status:        status,
		StatusName:    status.Kind.String(),
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Window is one page of a snapshot's view.
type Window struct {
	Items      []*domain.Pokemon `json:"items"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
}

// Page cuts the view into perPage-sized pages and returns the 1-based page.
// Out-of-range arguments are clamped.
func (s Snapshot) Page(page, perPage int) Window {
	perPage = util.Clamp(perPage, 1, constants.ServerConfig.MaxPerPage)
	total := len(s.View)
	totalPages := max(1, (total+perPage-1)/perPage)
	page = util.Clamp(page, 1, totalPages)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return Window{
		Items:      s.View[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
