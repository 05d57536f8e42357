package model

import (
	"net/url"
	"strconv"
	"strings"
)

type ConnectRequest struct {
	APIURL string `json:"api_url" binding:"required,url"`
}

// RequestDescriptor is the normalized form of a QueryState as sent to the
// data API. Columns is nil when the server default applies, Filters is nil
// when no filter is active.
type RequestDescriptor struct {
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
	Columns []string `json:"columns,omitempty"`
	Filters Filters  `json:"filters,omitempty"`
}

func (r RequestDescriptor) Query() url.Values {
	q := ExportQuery(r.Columns, r.Filters)
	q.Set("page", strconv.Itoa(r.Page))
	q.Set("limit", strconv.Itoa(r.Limit))
	return q
}

// Key is the canonical encoding of the descriptor. url.Values.Encode sorts
// parameter names and Filters.Encode sorts filter keys.
func (r RequestDescriptor) Key() string {
	return r.Query().Encode()
}

// ExportQuery serializes columns and filters the same way page requests
// do, without any pagination parameters.
func ExportQuery(columns []string, filters Filters) url.Values {
	q := url.Values{}
	if len(columns) > 0 {
		q.Set("columns", strings.Join(columns, ","))
	}
	if len(filters) > 0 {
		q.Set("filters", filters.Encode())
	}
	return q
}
