// Package domain defines the normalized BI entity types used by the pickers.
// These types represent the core concepts independent of the server's REST
// API structure.
package domain

import (
	"fmt"
	"strconv"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

// Chart represents a saved visualization on the BI server.
type Chart struct {
	ID          int    // server-side chart ID
	Name        string // slice name shown to users
	Type        string // visualization type (e.g. "table", "bar", "line")
	DatasetID   int    // owning dataset, 0 when unknown
	Description string // optional free-text description
	URL         string // web UI URL for the chart, may be empty
}

// Dataset represents a queryable dataset (physical or virtual table).
type Dataset struct {
	ID       int
	Name     string // table name
	Schema   string // database schema, may be empty
	Database string // database display name, may be empty
}

// Column represents one column of a dataset.
type Column struct {
	ID        int
	Name      string
	Type      string // column data type (e.g. "VARCHAR", "BIGINT")
	DatasetID int
	Groupable bool
}

// Filter field names understood by the server's list endpoints.
const (
	FieldChartName   = "slice_name"
	FieldDatasetName = "table_name"
	FieldColumnName  = "column_name"
	FieldDatasetID   = "datasource_id"
)

// ChartOption derives the display option for a chart: "{name} ({type})".
func ChartOption(c Chart) selector.Option {
	return selector.Option{
		Value: strconv.Itoa(c.ID),
		Label: fmt.Sprintf("%s (%s)", c.Name, c.Type),
		Meta: map[string]string{
			"type":        c.Type,
			"url":         c.URL,
			"description": c.Description,
		},
	}
}

// DatasetOption derives the display option for a dataset. Schema-qualified
// when a schema is known.
func DatasetOption(d Dataset) selector.Option {
	label := d.Name
	if d.Schema != "" {
		label = fmt.Sprintf("%s.%s", d.Schema, d.Name)
	}
	return selector.Option{
		Value: strconv.Itoa(d.ID),
		Label: label,
		Meta: map[string]string{
			"database": d.Database,
		},
	}
}

// ColumnOption derives the display option for a column: "{name} ({type})".
func ColumnOption(c Column) selector.Option {
	return selector.Option{
		Value: strconv.Itoa(c.ID),
		Label: fmt.Sprintf("%s (%s)", c.Name, c.Type),
		Meta: map[string]string{
			"type": c.Type,
		},
	}
}

// DatasetScope builds the scoping predicate restricting a picker to one
// dataset's entities.
func DatasetScope(datasetID int) selector.Filter {
	return selector.Filter{Field: FieldDatasetID, Value: strconv.Itoa(datasetID)}
}
