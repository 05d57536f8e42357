package model

const apiPrefix = "/data-viewer/"

// Dataset names the remote endpoints backing one browsable collection.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"-"`
	// DefaultColumns is the preferred initial selection. Empty means the
	// whole catalog.
	DefaultColumns []string `json:"-"`
	// ServerDefaultsToAll is true when the page endpoint returns every
	// column if `columns` is omitted. Only then is a full selection sent
	// without the parameter.
	ServerDefaultsToAll bool `json:"-"`
}

func (d Dataset) PagePath() string    { return apiPrefix + d.Path }
func (d Dataset) ColumnsPath() string { return apiPrefix + d.Path + "/columns" }
func (d Dataset) ExportPath() string  { return apiPrefix + d.Path + "/export" }

var PovertyData = Dataset{
	ID:   "poverty-data",
	Name: "Poverty Data",
	Path: "poverty-data",
	DefaultColumns: []string{
		"hh_id", "province_name", "city_name", "barangay_name", "urb_rur",
		"no_of_indiv", "no_sleeping_rooms", "house_type", "has_electricity",
		"television", "ref", "motorcycle", "poverty_status", "poor",
	},
}

var Predictions = Dataset{
	ID:                  "predictions",
	Name:                "Predictions",
	Path:                "predictions",
	ServerDefaultsToAll: true,
}

func Datasets() []Dataset {
	return []Dataset{PovertyData, Predictions}
}

func LookupDataset(id string) (Dataset, bool) {
	for _, ds := range Datasets() {
		if ds.ID == id {
			return ds, true
		}
	}
	return Dataset{}, false
}
