package api

import (
	"context"
	"fmt"

	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// Wire records for the v1 endpoints. Only the fields the pickers display are
// decoded.

type chartRecord struct {
	ID          int    `json:"id"`
	SliceName   string `json:"slice_name"`
	VizType     string `json:"viz_type"`
	DatasetID   int    `json:"datasource_id"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type datasetRecord struct {
	ID       int    `json:"id"`
	Name     string `json:"table_name"`
	Schema   string `json:"schema"`
	Database struct {
		Name string `json:"database_name"`
	} `json:"database"`
}

type columnRecord struct {
	ID        int    `json:"id"`
	Name      string `json:"column_name"`
	Type      string `json:"type"`
	DatasetID int    `json:"datasource_id"`
	Groupable bool   `json:"groupby"`
}

func (r chartRecord) toDomain(baseURL string) domain.Chart {
	c := domain.Chart{
		ID:          r.ID,
		Name:        r.SliceName,
		Type:        r.VizType,
		DatasetID:   r.DatasetID,
		Description: r.Description,
	}
	if r.URL != "" {
		c.URL = baseURL + r.URL
	}
	return c
}

func (r datasetRecord) toDomain() domain.Dataset {
	return domain.Dataset{
		ID:       r.ID,
		Name:     r.Name,
		Schema:   r.Schema,
		Database: r.Database.Name,
	}
}

func (r columnRecord) toDomain() domain.Column {
	return domain.Column(r)
}

// ListCharts runs one paged chart query. Returns the page of charts and the
// total match count.
func (c *Client) ListCharts(ctx context.Context, req selector.QueryRequest) ([]domain.Chart, int, error) {
	records, count, err := list[chartRecord](ctx, c, "/api/v1/chart/", req)
	if err != nil {
		return nil, 0, fmt.Errorf("list charts: %w", err)
	}

	charts := make([]domain.Chart, 0, len(records))
	for _, r := range records {
		charts = append(charts, r.toDomain(c.BaseURL()))
	}
	return charts, count, nil
}

// GetChart fetches a single chart by ID. Returns ErrNotFound when the chart
// does not exist.
func (c *Client) GetChart(ctx context.Context, id int) (domain.Chart, error) {
	record, err := fetch[chartRecord](ctx, c, fmt.Sprintf("/api/v1/chart/%d", id))
	if err != nil {
		return domain.Chart{}, fmt.Errorf("get chart %d: %w", id, err)
	}
	return record.toDomain(c.BaseURL()), nil
}

// ListDatasets runs one paged dataset query.
func (c *Client) ListDatasets(ctx context.Context, req selector.QueryRequest) ([]domain.Dataset, int, error) {
	records, count, err := list[datasetRecord](ctx, c, "/api/v1/dataset/", req)
	if err != nil {
		return nil, 0, fmt.Errorf("list datasets: %w", err)
	}

	datasets := make([]domain.Dataset, 0, len(records))
	for _, r := range records {
		datasets = append(datasets, r.toDomain())
	}
	return datasets, count, nil
}

// GetDataset fetches a single dataset by ID.
func (c *Client) GetDataset(ctx context.Context, id int) (domain.Dataset, error) {
	record, err := fetch[datasetRecord](ctx, c, fmt.Sprintf("/api/v1/dataset/%d", id))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("get dataset %d: %w", id, err)
	}
	return record.toDomain(), nil
}

// ListColumns runs one paged column query. Scope the request with a
// datasource_id equality filter to restrict it to one dataset.
func (c *Client) ListColumns(ctx context.Context, req selector.QueryRequest) ([]domain.Column, int, error) {
	records, count, err := list[columnRecord](ctx, c, "/api/v1/column/", req)
	if err != nil {
		return nil, 0, fmt.Errorf("list columns: %w", err)
	}

	columns := make([]domain.Column, 0, len(records))
	for _, r := range records {
		columns = append(columns, r.toDomain())
	}
	return columns, count, nil
}

// GetColumn fetches a single column by ID.
func (c *Client) GetColumn(ctx context.Context, id int) (domain.Column, error) {
	record, err := fetch[columnRecord](ctx, c, fmt.Sprintf("/api/v1/column/%d", id))
	if err != nil {
		return domain.Column{}, fmt.Errorf("get column %d: %w", id, err)
	}
	return record.toDomain(), nil
}
