package service

import (
	"context"

	"povlens/viewer/internal/model"
)

// DataAPI is the remote dataset contract: a column catalog, paginated
// pages and CSV export links per dataset. BaseURL identifies the API
// instance; two clients with the same BaseURL serve the same data.
type DataAPI interface {
	BaseURL() string
	ListColumns(ctx context.Context, ds model.Dataset) ([]model.Column, error)
	FetchPage(ctx context.Context, ds model.Dataset, req model.RequestDescriptor) (model.PageResult, error)
	ExportURL(ds model.Dataset, columns []string, filters model.Filters) string
}

type PredictionAPI interface {
	Questionnaire(ctx context.Context) (model.Questionnaire, error)
	Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error)
}

type TargetingAPI interface {
	Coverage(ctx context.Context) ([]model.CoverageMetrics, error)
	Efficiency(ctx context.Context) ([]model.EfficiencyMetrics, error)
}

type APIClient interface {
	DataAPI
	PredictionAPI
	TargetingAPI
}
