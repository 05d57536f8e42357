package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterValueJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected FilterValue
		wantErr  bool
	}{
		{name: "string", in: `"PALAWAN"`, expected: StringFilter("PALAWAN")},
		{name: "integer", in: `1`, expected: IntFilter(1)},
		{name: "zero", in: `0`, expected: IntFilter(0)},
		{name: "null", in: `null`, expected: NoFilter},
		{name: "float rejected", in: `1.5`, wantErr: true},
		{name: "object rejected", in: `{"min":1}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v FilterValue
			err := json.Unmarshal([]byte(tc.in), &v)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tc.in, string(out))
		})
	}
}

func TestFilterValueIsActive(t *testing.T) {
	assert.True(t, StringFilter("x").IsActive())
	assert.True(t, IntFilter(0).IsActive())
	assert.False(t, StringFilter("").IsActive())
	assert.False(t, NoFilter.IsActive())
}

func TestParseFilterValue(t *testing.T) {
	assert.Equal(t, IntFilter(2), ParseFilterValue("2"))
	assert.Equal(t, StringFilter("OCCIDENTAL MINDORO"), ParseFilterValue("OCCIDENTAL MINDORO"))
	assert.Equal(t, NoFilter, ParseFilterValue(""))
}

func TestFiltersEncode(t *testing.T) {
	f := Filters{
		"province_name": StringFilter("PALAWAN"),
		"poor":          IntFilter(1),
		"city_name":     StringFilter("PUERTO PRINCESA"),
	}
	assert.Equal(t, `{"city_name":"PUERTO PRINCESA","poor":1,"province_name":"PALAWAN"}`, f.Encode())
	assert.Equal(t, "", Filters{}.Encode())

	clone := f.Clone()
	delete(clone, "poor")
	assert.Len(t, f, 3)
}

func TestColumnParseFilterValue(t *testing.T) {
	tests := []struct {
		name     string
		column   Column
		in       string
		expected FilterValue
	}{
		{name: "string column keeps leading zeros", column: Column{Name: "hh_id", Type: "String"}, in: "0012", expected: StringFilter("0012")},
		{name: "nullable string", column: Column{Name: "city_name", Type: "Nullable(String)"}, in: "7", expected: StringFilter("7")},
		{name: "low cardinality", column: Column{Name: "poverty_status", Type: "LowCardinality(String)"}, in: "Poor", expected: StringFilter("Poor")},
		{name: "unsigned integer", column: Column{Name: "poor", Type: "UInt8"}, in: "0", expected: IntFilter(0)},
		{name: "integer column with text", column: Column{Name: "urb_rur", Type: "UInt8"}, in: "rural", expected: StringFilter("rural")},
		{name: "untyped column", column: Column{Name: "poor"}, in: "1", expected: IntFilter(1)},
		{name: "blank clears", column: Column{Name: "hh_id", Type: "String"}, in: "", expected: NoFilter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.column.ParseFilterValue(tc.in))
		})
	}
}

func TestLookupColumn(t *testing.T) {
	columns := []Column{{Name: "hh_id", Type: "String"}, {Name: "poor", Type: "UInt8"}}

	col, ok := LookupColumn(columns, "poor")
	require.True(t, ok)
	assert.Equal(t, "UInt8", col.Type)

	_, ok = LookupColumn(columns, "motorcycle")
	assert.False(t, ok)
}
