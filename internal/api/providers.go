package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// Provider adapters exposing the typed client methods through the generic
// selector.Provider contract consumed by the pickers.

// ChartProvider serves chart options.
type ChartProvider struct {
	Client *Client
}

func (p ChartProvider) Query(ctx context.Context, req selector.QueryRequest) (selector.QueryResult, error) {
	charts, count, err := p.Client.ListCharts(ctx, req)
	if err != nil {
		return selector.QueryResult{}, err
	}

	items := make([]selector.Option, 0, len(charts))
	for _, c := range charts {
		items = append(items, domain.ChartOption(c))
	}
	return selector.QueryResult{Items: items, TotalCount: count}, nil
}

func (p ChartProvider) FetchByID(ctx context.Context, id string) (selector.Option, error) {
	chartID, err := strconv.Atoi(id)
	if err != nil {
		return selector.Option{}, fmt.Errorf("chart id %q: %w", id, err)
	}
	chart, err := p.Client.GetChart(ctx, chartID)
	if err != nil {
		return selector.Option{}, err
	}
	return domain.ChartOption(chart), nil
}

// DatasetProvider serves dataset options.
type DatasetProvider struct {
	Client *Client
}

func (p DatasetProvider) Query(ctx context.Context, req selector.QueryRequest) (selector.QueryResult, error) {
	datasets, count, err := p.Client.ListDatasets(ctx, req)
	if err != nil {
		return selector.QueryResult{}, err
	}

	items := make([]selector.Option, 0, len(datasets))
	for _, d := range datasets {
		items = append(items, domain.DatasetOption(d))
	}
	return selector.QueryResult{Items: items, TotalCount: count}, nil
}

func (p DatasetProvider) FetchByID(ctx context.Context, id string) (selector.Option, error) {
	datasetID, err := strconv.Atoi(id)
	if err != nil {
		return selector.Option{}, fmt.Errorf("dataset id %q: %w", id, err)
	}
	dataset, err := p.Client.GetDataset(ctx, datasetID)
	if err != nil {
		return selector.Option{}, err
	}
	return domain.DatasetOption(dataset), nil
}

// ColumnProvider serves column options, usually scoped to one dataset.
type ColumnProvider struct {
	Client *Client
}

func (p ColumnProvider) Query(ctx context.Context, req selector.QueryRequest) (selector.QueryResult, error) {
	columns, count, err := p.Client.ListColumns(ctx, req)
	if err != nil {
		return selector.QueryResult{}, err
	}

	items := make([]selector.Option, 0, len(columns))
	for _, col := range columns {
		items = append(items, domain.ColumnOption(col))
	}
	return selector.QueryResult{Items: items, TotalCount: count}, nil
}

func (p ColumnProvider) FetchByID(ctx context.Context, id string) (selector.Option, error) {
	columnID, err := strconv.Atoi(id)
	if err != nil {
		return selector.Option{}, fmt.Errorf("column id %q: %w", id, err)
	}
	column, err := p.Client.GetColumn(ctx, columnID)
	if err != nil {
		return selector.Option{}, err
	}
	return domain.ColumnOption(column), nil
}

var (
	_ selector.Provider = ChartProvider{}
	_ selector.Provider = DatasetProvider{}
	_ selector.Provider = ColumnProvider{}
)
