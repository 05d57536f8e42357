package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"povlens/viewer/internal/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/v1/", time.Second)
}

func TestListColumns(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedErr error
		expected    []model.Column
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `[{"name":"hh_id","type":"String"},{"name":"poor","type":"UInt8"}]`,
			expected: []model.Column{{Name: "hh_id", Type: "String"}, {Name: "poor", Type: "UInt8"}},
		},
		{
			name:     "null body",
			status:   http.StatusOK,
			body:     `null`,
			expected: []model.Column{},
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `{"detail":"boom"}`,
			expectedErr: ErrUnexpectedStatus,
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `[{"name":`,
			expectedErr: ErrCatalogUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/data-viewer/predictions/columns", r.URL.Path)
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			})

			cols, err := client.ListColumns(context.Background(), model.Predictions)
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErr))
				assert.True(t, errors.Is(err, ErrCatalogUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cols)
		})
	}
}

func TestFetchPage(t *testing.T) {
	var got url.Values
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/data-viewer/poverty-data", r.URL.Path)
		got = r.URL.Query()
		io.WriteString(w, `{"data":[{"hh_id":"A1","poor":1,"city_name":null}],"total":237,"page":3,"limit":100,"total_pages":3}`)
	})

	req := model.RequestDescriptor{
		Page:    3,
		Limit:   100,
		Columns: []string{"hh_id", "poor", "city_name"},
		Filters: model.Filters{"province_name": model.StringFilter("PALAWAN"), "poor": model.IntFilter(1)},
	}
	page, err := client.FetchPage(context.Background(), model.PovertyData, req)
	require.NoError(t, err)

	assert.Equal(t, "3", got.Get("page"))
	assert.Equal(t, "100", got.Get("limit"))
	assert.Equal(t, "hh_id,poor,city_name", got.Get("columns"))
	assert.JSONEq(t, `{"poor":1,"province_name":"PALAWAN"}`, got.Get("filters"))

	assert.Equal(t, 237, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "A1", page.Data[0]["hh_id"])
	assert.Equal(t, json.Number("1"), page.Data[0]["poor"])
	assert.Nil(t, page.Data[0]["city_name"])
}

func TestFetchPageOmitsEmptyParams(t *testing.T) {
	var got url.Values
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		io.WriteString(w, `{"data":null,"total":0}`)
	})

	page, err := client.FetchPage(context.Background(), model.Predictions, model.RequestDescriptor{Page: 1, Limit: 50})
	require.NoError(t, err)

	assert.False(t, got.Has("columns"))
	assert.False(t, got.Has("filters"))
	assert.Equal(t, []model.Record{}, page.Data)
}

func TestFetchPageError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.FetchPage(context.Background(), model.Predictions, model.RequestDescriptor{Page: 1, Limit: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPageFetchFailed))
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "predictions")
}

func TestPredict(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/predict/poverty", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.PredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "PALAWAN", req.ProvinceName)

		io.WriteString(w, `{"prediction_id":"p-1","predicted_status":1,"predicted_label":"Poor","probability":0.8,"probability_poor":0.8,"probability_nonpoor":0.2,"model_version":"v1","recommendation":"Enroll"}`)
	})

	resp, err := client.Predict(context.Background(), model.PredictionRequest{ProvinceName: "PALAWAN", UrbRur: 2, NoOfIndiv: 5, HouseType: 3})
	require.NoError(t, err)
	assert.Equal(t, "p-1", resp.PredictionID)
	assert.Equal(t, 1, resp.PredictedStatus)
	assert.InDelta(t, 0.2, resp.ProbabilityNonPoor, 1e-9)
}

func TestQuestionnaireAndTargeting(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/predict/questionnaire":
			io.WriteString(w, `{"version":"mvp_v1.0","total_fields":1,"fields":[{"name":"no_of_indiv","label":"Members","type":"number","min":1,"max":20}]}`)
		case "/api/v1/targeting/coverage":
			io.WriteString(w, `[{"location":"PALAWAN","province_name":"PALAWAN","total_households":10,"total_poor":4,"poor_with_pppp":2,"coverage_rate":50,"unmet_need":2}]`)
		case "/api/v1/targeting/efficiency":
			io.WriteString(w, `[{"location":"PALAWAN","total_recipients":5,"poor_recipients":4,"nonpoor_recipients":1,"targeting_accuracy":80,"leakage_rate":20}]`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	q, err := client.Questionnaire(ctx)
	require.NoError(t, err)
	require.Len(t, q.Fields, 1)
	require.NotNil(t, q.Fields[0].Max)
	assert.Equal(t, 20, *q.Fields[0].Max)

	cov, err := client.Coverage(ctx)
	require.NoError(t, err)
	require.Len(t, cov, 1)
	assert.Equal(t, 2, cov[0].UnmetNeed)

	eff, err := client.Efficiency(ctx)
	require.NoError(t, err)
	require.Len(t, eff, 1)
	assert.InDelta(t, 20.0, eff[0].LeakageRate, 1e-9)
}

func TestBuildExportURL(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		filters  model.Filters
		expected string
	}{
		{
			name:     "no params",
			expected: "http://api/v1/data-viewer/poverty-data/export",
		},
		{
			name:     "columns only",
			columns:  []string{"hh_id", "poor"},
			expected: "http://api/v1/data-viewer/poverty-data/export?columns=hh_id%2Cpoor",
		},
		{
			name:     "columns and filters",
			columns:  []string{"hh_id"},
			filters:  model.Filters{"poor": model.IntFilter(0)},
			expected: "http://api/v1/data-viewer/poverty-data/export?columns=hh_id&filters=%7B%22poor%22%3A0%7D",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildExportURL("http://api/v1/", model.PovertyData, tc.columns, tc.filters)
			assert.Equal(t, tc.expected, got)

			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.False(t, u.Query().Has("page"))
			assert.False(t, u.Query().Has("limit"))
		})
	}
}
