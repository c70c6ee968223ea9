package tui

import (
	"context"
	"time"

	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// DatasetPickerOptions carries the host-supplied inputs for the dataset
// picker.
type DatasetPickerOptions struct {
	Provider     selector.Provider
	CurrentValue string
	Recent       []selector.Option
	PageSize     int
	Debounce     time.Duration
}

// NewDatasetPicker builds the dataset select view. Datasets are searched by
// table name and ordered the same way.
func NewDatasetPicker(ctx context.Context, opts DatasetPickerOptions) SelectModel {
	return NewSelectModel(ctx, SelectConfig{
		Title:        "Select Dataset",
		Provider:     opts.Provider,
		Mode:         selector.ModeSingle,
		PageSize:     opts.PageSize,
		CurrentValue: opts.CurrentValue,
		SearchField:  domain.FieldDatasetName,
		Placeholder:  "Search datasets",
		Debounce:     opts.Debounce,
		Recent:       opts.Recent,
	})
}
