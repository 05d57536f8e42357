package model

// Record is one row keyed by column name. Missing keys and nil values are
// both rendered as the placeholder.
type Record map[string]any

type PageResult struct {
	Data       []Record `json:"data" msgpack:"data"`
	Total      int      `json:"total" msgpack:"total"`
	Page       int      `json:"page" msgpack:"page"`
	Limit      int      `json:"limit" msgpack:"limit"`
	TotalPages int      `json:"total_pages" msgpack:"total_pages"`
}
