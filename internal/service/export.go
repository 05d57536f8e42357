package service

import (
	"strings"

	"povlens/viewer/internal/model"
)

// BuildExportURL returns the CSV download link for the given selection.
// It never carries page or limit: an export covers the whole filtered set.
func BuildExportURL(baseURL string, ds model.Dataset, columns []string, filters model.Filters) string {
	u := strings.TrimRight(baseURL, "/") + ds.ExportPath()
	if q := model.ExportQuery(columns, filters); len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
