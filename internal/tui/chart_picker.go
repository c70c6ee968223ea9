package tui

import (
	"context"
	"time"

	"github.com/umarmehmood-wq/superset/internal/domain"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// ChartPickerOptions carries the host-supplied inputs for the chart picker.
// DatasetID of zero means unscoped (all charts).
type ChartPickerOptions struct {
	Provider     selector.Provider
	DatasetID    int
	CurrentValue string
	Recent       []selector.Option
	PageSize     int
	Debounce     time.Duration
}

// NewChartPicker builds the chart select view, optionally scoped to one
// dataset. Charts can be opened in the browser from the list.
func NewChartPicker(ctx context.Context, opts ChartPickerOptions) SelectModel {
	cfg := SelectConfig{
		Title:         "Select Chart",
		Provider:      opts.Provider,
		Mode:          selector.ModeSingle,
		PageSize:      opts.PageSize,
		CurrentValue:  opts.CurrentValue,
		SearchField:   domain.FieldChartName,
		Placeholder:   "Search charts",
		Clearable:     true,
		Debounce:      opts.Debounce,
		Recent:        opts.Recent,
		OpenInBrowser: true,
	}
	if opts.DatasetID != 0 {
		cfg.Scope = domain.DatasetScope(opts.DatasetID)
	}
	return NewSelectModel(ctx, cfg)
}
