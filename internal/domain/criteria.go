package domain

import (
	"github.com/kapu/pokedex-catalog-go/internal/constants"
	"github.com/kapu/pokedex-catalog-go/internal/util"
	"github.com/kapu/pokedex-catalog-go/pkg/errors"
)

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

func (s SortOrder) Valid() bool {
	return s == SortAscending || s == SortDescending
}

// Criteria filters and orders the derived view. Types is a set, kept sorted
// so that equal sets compare equal.
type Criteria struct {
	Types     []string  `json:"types"`
	SortOrder SortOrder `json:"sortOrder"`
	MinID     int       `json:"minId"`
	MaxID     int       `json:"maxId"`
}

// CriteriaPatch is a partial update; nil fields are left unchanged.
type CriteriaPatch struct {
	Types     *[]string  `json:"types,omitempty"`
	SortOrder *SortOrder `json:"sortOrder,omitempty"`
	MinID     *int       `json:"minId,omitempty"`
	MaxID     *int       `json:"maxId,omitempty"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		Types:     []string{},
		SortOrder: SortAscending,
		MinID:     constants.Criteria.MinID,
		MaxID:     constants.Criteria.MaxID,
	}
}

// Merge returns c with the non-nil fields of patch applied.
func (c Criteria) Merge(patch CriteriaPatch) Criteria {
	merged := c.Clone()
	if patch.Types != nil {
		merged.Types = util.UniqueSorted(*patch.Types)
	}
	if patch.SortOrder != nil {
		merged.SortOrder = *patch.SortOrder
	}
	if patch.MinID != nil {
		merged.MinID = *patch.MinID
	}
	if patch.MaxID != nil {
		merged.MaxID = *patch.MaxID
	}
	return merged
}

func (c Criteria) Clone() Criteria {
	out := c
	out.Types = append([]string{}, c.Types...)
	return out
}

func (p CriteriaPatch) Validate() error {
	if p.SortOrder != nil && !p.SortOrder.Valid() {
		return errors.NewValidationError("sort order must be asc or desc", "sortOrder", string(*p.SortOrder))
	}
	if p.MinID != nil && *p.MinID < 0 {
		return errors.NewValidationError("minimum id must not be negative", "minId", *p.MinID)
	}
	if p.MaxID != nil && *p.MaxID < 0 {
		return errors.NewValidationError("maximum id must not be negative", "maxId", *p.MaxID)
	}
	return nil
}
