package tui

import (
	"context"
	"time"

	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// ColumnPickerOptions carries the host-supplied inputs for the column
// picker. Columns are always scoped to one dataset; when the host switches
// datasets it constructs a fresh picker, which drops the old selection.
type ColumnPickerOptions struct {
	Provider  selector.Provider
	DatasetID int
	PageSize  int
	Debounce  time.Duration
}

// NewColumnPicker builds the multi-select column view for one dataset.
func NewColumnPicker(ctx context.Context, opts ColumnPickerOptions) SelectModel {
	return NewSelectModel(ctx, SelectConfig{
		Title:       "Select Columns",
		Provider:    opts.Provider,
		Mode:        selector.ModeMulti,
		PageSize:    opts.PageSize,
		Scope:       domain.DatasetScope(opts.DatasetID),
		SearchField: domain.FieldColumnName,
		Placeholder: "Search columns",
		Clearable:   true,
		Debounce:    opts.Debounce,
	})
}
