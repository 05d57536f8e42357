package model

import "regexp"

type Column struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// textTypes matches declared column types whose values compare as text,
// including wrapped forms such as Nullable(String) or LowCardinality(String).
var textTypes = regexp.MustCompile(`(?i)string|enum|uuid|date|ipv[46]`)

// ParseFilterValue types free text by the column's declared type. Text
// columns keep numeric-looking input such as "0012" as a string; other
// and untyped columns fall back to the package-level ParseFilterValue.
func (c Column) ParseFilterValue(s string) FilterValue {
	if s != "" && textTypes.MatchString(c.Type) {
		return StringFilter(s)
	}
	return ParseFilterValue(s)
}

func ColumnNames(columns []Column) []string {
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Name)
	}
	return names
}

// LookupColumn finds name in columns.
func LookupColumn(columns []Column, name string) (Column, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
