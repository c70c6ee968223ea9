package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "test-token")
	require.NoError(t, err)
	return client
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("not-a-url", "tok")
	assert.Error(t, err)

	_, err = New("://broken", "tok")
	assert.Error(t, err)
}

func TestListCharts_QueryComposition(t *testing.T) {
	var gotQuery listQuery
	var gotAuth, gotRequestID string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("q")), &gotQuery))

		json.NewEncoder(w).Encode(map[string]any{"count": 0, "result": []any{}})
	})

	req := selector.QueryRequest{
		SearchText:  "sales",
		PageIndex:   2,
		PageSize:    50,
		OrderColumn: "slice_name",
		Filters: []selector.Filter{
			{Field: "slice_name", Op: selector.OpContains, Value: "sales"},
			{Field: "datasource_id", Op: selector.OpEquals, Value: "123"},
		},
	}
	_, _, err := client.ListCharts(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, 2, gotQuery.Page)
	assert.Equal(t, 50, gotQuery.PageSize)
	assert.Equal(t, "slice_name", gotQuery.OrderColumn)
	assert.Equal(t, "asc", gotQuery.OrderDirection)
	require.Len(t, gotQuery.Filters, 2)
	assert.Equal(t, wireFilter{Col: "slice_name", Opr: "ct", Value: "sales"}, gotQuery.Filters[0])
	assert.Equal(t, wireFilter{Col: "datasource_id", Opr: "eq", Value: "123"}, gotQuery.Filters[1])
}

func TestChartProvider_Query_MapsOptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chart/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"result": []map[string]any{
				{"id": 1, "slice_name": "Test Chart 1", "viz_type": "table"},
				{"id": 2, "slice_name": "Test Chart 2", "viz_type": "bar"},
			},
		})
	})

	provider := ChartProvider{Client: client}
	res, err := provider.Query(context.Background(), selector.QueryRequest{
		SearchText: "Chart", PageSize: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "1", res.Items[0].Value)
	assert.Equal(t, "Test Chart 1 (table)", res.Items[0].Label)
	assert.Equal(t, "2", res.Items[1].Value)
	assert.Equal(t, "Test Chart 2 (bar)", res.Items[1].Label)
}

func TestChartProvider_FetchByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chart/7", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"id": 7, "slice_name": "Weekly Revenue", "viz_type": "line", "url": "/explore/7",
			},
		})
	})

	provider := ChartProvider{Client: client}
	opt, err := provider.FetchByID(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "7", opt.Value)
	assert.Equal(t, "Weekly Revenue (line)", opt.Label)
	assert.Equal(t, client.BaseURL()+"/explore/7", opt.Meta["url"])
}

func TestFetchByID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	provider := ChartProvider{Client: client}
	_, err := provider.FetchByID(context.Background(), "999")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchByID_NonNumericID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be issued for an unparseable id")
	})

	provider := ChartProvider{Client: client}
	_, err := provider.FetchByID(context.Background(), "abc")
	assert.Error(t, err)
}

func TestServerError_Surfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, _, err := client.ListCharts(context.Background(), selector.QueryRequest{PageSize: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDatasetProvider_Query_SchemaQualifiedLabels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dataset/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"count": 1,
			"result": []map[string]any{
				{"id": 12, "table_name": "orders", "schema": "public",
					"database": map[string]any{"database_name": "analytics"}},
			},
		})
	})

	provider := DatasetProvider{Client: client}
	res, err := provider.Query(context.Background(), selector.QueryRequest{PageSize: 25})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "12", res.Items[0].Value)
	assert.Equal(t, "public.orders", res.Items[0].Label)
	assert.Equal(t, "analytics", res.Items[0].Meta["database"])
}

func TestColumnProvider_Query(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/column/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"result": []map[string]any{
				{"id": 100, "column_name": "order_date", "type": "TIMESTAMP", "datasource_id": 12, "groupby": true},
				{"id": 101, "column_name": "amount", "type": "NUMERIC", "datasource_id": 12, "groupby": false},
			},
		})
	})

	provider := ColumnProvider{Client: client}
	res, err := provider.Query(context.Background(), selector.QueryRequest{PageSize: 25})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "order_date (TIMESTAMP)", res.Items[0].Label)
	assert.Equal(t, "amount (NUMERIC)", res.Items[1].Label)
}
