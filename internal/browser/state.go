package browser

import (
	"slices"

	"povlens/viewer/helper"
	"povlens/viewer/internal/model"
)

// TotalUnknown is passed to WithPage when no page result is available.
const TotalUnknown = -1

// InitialSelection returns the preferred columns the catalog actually
// offers, in preferred order. An empty preference selects the whole catalog.
func InitialSelection(catalog []model.Column, preferred []string) []string {
	if len(preferred) == 0 {
		return model.ColumnNames(catalog)
	}
	return filterColumns(catalog, preferred)
}

// WithSelectedColumns replaces the selection with the catalog members of
// columns. Unknown names and repeats are dropped silently.
func WithSelectedColumns(s model.QueryState, catalog []model.Column, columns []string) model.QueryState {
	next := s.Clone()
	next.SelectedColumns = filterColumns(catalog, columns)
	next.Page = 1
	return next
}

// WithFilter stores value under field, or removes field when value is not
// active. Field names that are not plain identifiers are ignored.
func WithFilter(s model.QueryState, field string, value model.FilterValue) model.QueryState {
	if !helper.IsValidIdentifier(field) {
		return s.Clone()
	}
	next := s.Clone()
	if value.IsActive() {
		next.Filters[field] = value
	} else {
		delete(next.Filters, field)
	}
	next.Page = 1
	return next
}

// WithPage moves to page n. With a known total, n must lie in
// 1..ceil(total/limit); otherwise any positive n is accepted. Invalid
// pages leave the state unchanged.
func WithPage(s model.QueryState, n, total int) model.QueryState {
	next := s.Clone()
	if n < 1 {
		return next
	}
	if total >= 0 && n > max(PageCount(total, s.Limit), 1) {
		return next
	}
	next.Page = n
	return next
}

func WithLimit(s model.QueryState, n int) model.QueryState {
	next := s.Clone()
	if n < 1 {
		return next
	}
	next.Limit = n
	next.Page = 1
	return next
}

// BuildRequest derives the request sent for s. Columns are omitted only
// when the dataset's server defaults to every column and the selection is
// exactly the catalog.
func BuildRequest(ds model.Dataset, s model.QueryState, catalog []model.Column) model.RequestDescriptor {
	req := model.RequestDescriptor{
		Page:  s.Page,
		Limit: s.Limit,
	}
	req.Columns = requestColumns(ds, s.SelectedColumns, catalog)
	if len(s.Filters) > 0 {
		req.Filters = s.Filters.Clone()
	}
	return req
}

func requestColumns(ds model.Dataset, selected []string, catalog []model.Column) []string {
	if len(selected) == 0 {
		return nil
	}
	if ds.ServerDefaultsToAll && slices.Equal(selected, model.ColumnNames(catalog)) {
		return nil
	}
	return slices.Clone(selected)
}

func filterColumns(catalog []model.Column, columns []string) []string {
	known := make(map[string]bool, len(catalog))
	for _, col := range catalog {
		known[col.Name] = true
	}
	out := make([]string, 0, len(columns))
	for _, name := range columns {
		if known[name] {
			out = append(out, name)
			delete(known, name)
		}
	}
	return out
}
