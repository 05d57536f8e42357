package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"povlens/viewer/internal/model"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

// HTTPClient talks to the poverty-analysis API over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPClient) BaseURL() string {
	return h.baseURL
}

func (h *HTTPClient) ListColumns(ctx context.Context, ds model.Dataset) ([]model.Column, error) {
	var columns []model.Column
	if err := h.do(ctx, http.MethodGet, ds.ColumnsPath(), nil, nil, &columns); err != nil {
		return nil, &DatasetError{Kind: ErrCatalogUnavailable, Dataset: ds.ID, Err: err}
	}
	if columns == nil {
		columns = []model.Column{}
	}
	return columns, nil
}

func (h *HTTPClient) FetchPage(ctx context.Context, ds model.Dataset, req model.RequestDescriptor) (model.PageResult, error) {
	var page model.PageResult
	if err := h.do(ctx, http.MethodGet, ds.PagePath(), req.Query(), nil, &page); err != nil {
		return model.PageResult{}, &DatasetError{Kind: ErrPageFetchFailed, Dataset: ds.ID, Err: err}
	}
	if page.Data == nil {
		page.Data = []model.Record{}
	}
	return page, nil
}

func (h *HTTPClient) ExportURL(ds model.Dataset, columns []string, filters model.Filters) string {
	return BuildExportURL(h.baseURL, ds, columns, filters)
}

func (h *HTTPClient) Questionnaire(ctx context.Context) (model.Questionnaire, error) {
	var q model.Questionnaire
	err := h.do(ctx, http.MethodGet, "/predict/questionnaire", nil, nil, &q)
	return q, err
}

func (h *HTTPClient) Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	var resp model.PredictionResponse
	err := h.do(ctx, http.MethodPost, "/predict/poverty", nil, req, &resp)
	return resp, err
}

func (h *HTTPClient) Coverage(ctx context.Context) ([]model.CoverageMetrics, error) {
	var metrics []model.CoverageMetrics
	err := h.do(ctx, http.MethodGet, "/targeting/coverage", nil, nil, &metrics)
	return metrics, err
}

func (h *HTTPClient) Efficiency(ctx context.Context) ([]model.EfficiencyMetrics, error) {
	var metrics []model.EfficiencyMetrics
	err := h.do(ctx, http.MethodGet, "/targeting/efficiency", nil, nil, &metrics)
	return metrics, err
}

func (h *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := h.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.WithMessage(ErrUnexpectedStatus,
			fmt.Sprintf("%s %s returned %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	dec := json.NewDecoder(resp.Body)
	// Keep record values as json.Number so integers are not shown as floats.
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}
