package model

import (
	"maps"
	"slices"
)

const DefaultLimit = 100

// AllowedLimits are the page sizes offered to users. Other positive values
// are still accepted.
var AllowedLimits = []int{50, 100, 200, 500}

type QueryState struct {
	Page            int      `json:"page"`
	Limit           int      `json:"limit"`
	SelectedColumns []string `json:"selected_columns"`
	Filters         Filters  `json:"filters"`
}

func NewQueryState(limit int) QueryState {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return QueryState{
		Page:            1,
		Limit:           limit,
		SelectedColumns: []string{},
		Filters:         Filters{},
	}
}

func (s QueryState) Clone() QueryState {
	return QueryState{
		Page:            s.Page,
		Limit:           s.Limit,
		SelectedColumns: slices.Clone(s.SelectedColumns),
		Filters:         s.Filters.Clone(),
	}
}

func (s QueryState) Equal(other QueryState) bool {
	return s.Page == other.Page &&
		s.Limit == other.Limit &&
		slices.Equal(s.SelectedColumns, other.SelectedColumns) &&
		maps.Equal(s.Filters, other.Filters)
}
