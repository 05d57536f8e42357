package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CatalogLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povlens_catalog_loads_total",
			Help: "Column catalog loads by dataset and outcome",
		},
		[]string{"dataset", "outcome"},
	)
	PageFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povlens_page_fetches_total",
			Help: "Page fetches by dataset and outcome",
		},
		[]string{"dataset", "outcome"},
	)
	StaleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povlens_stale_responses_total",
			Help: "Page responses dropped because the query changed while they were in flight",
		},
		[]string{"dataset"},
	)
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "povlens_page_cache_hits_total",
			Help: "Pages served from the page cache",
		},
		[]string{"dataset"},
	)
)

func init() {
	prometheus.MustRegister(CatalogLoads, PageFetches, StaleResponses, CacheHits)
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
