package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type FilterKind uint8

const (
	FilterAbsent FilterKind = iota
	FilterString
	FilterInt
)

// FilterValue is a filter operand: a string, an integer, or nothing.
type FilterValue struct {
	Kind FilterKind
	Str  string
	Int  int64
}

var NoFilter = FilterValue{}

func StringFilter(s string) FilterValue {
	return FilterValue{Kind: FilterString, Str: s}
}

func IntFilter(n int64) FilterValue {
	return FilterValue{Kind: FilterInt, Int: n}
}

// ParseFilterValue reads free text the way a form field would: integers
// become IntFilter, blank input becomes NoFilter, anything else a string.
func ParseFilterValue(s string) FilterValue {
	if s == "" {
		return NoFilter
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntFilter(n)
	}
	return StringFilter(s)
}

// IsActive reports whether the value should be present in a Filters map.
// Zero is a valid integer filter (e.g. poor=0).
func (v FilterValue) IsActive() bool {
	switch v.Kind {
	case FilterString:
		return v.Str != ""
	case FilterInt:
		return true
	}
	return false
}

func (v FilterValue) String() string {
	switch v.Kind {
	case FilterString:
		return v.Str
	case FilterInt:
		return strconv.FormatInt(v.Int, 10)
	}
	return ""
}

func (v FilterValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FilterString:
		return json.Marshal(v.Str)
	case FilterInt:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	}
	return []byte("null"), nil
}

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = NoFilter
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringFilter(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("filter value must be a string or an integer, got %s", data)
	}
	*v = IntFilter(n)
	return nil
}

// Filters maps a column name to its active filter value. Inactive values
// are never stored.
type Filters map[string]FilterValue

func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Encode returns the JSON object sent in the `filters` query parameter.
// Keys come out sorted, so equal maps encode to equal strings.
func (f Filters) Encode() string {
	if len(f) == 0 {
		return ""
	}
	// FilterValue.MarshalJSON never fails.
	data, _ := json.Marshal(map[string]FilterValue(f))
	return string(data)
}
