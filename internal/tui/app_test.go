package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

func TestAppModel_RoutesCompletionsFromTheFirstMessage(t *testing.T) {
	app := NewAppModel(context.Background(), nil, nil, 0, "", 25, 0)
	app.Init() // issues the first-page query; commands are not executed here

	// The query completion may be the very first message the program
	// delivers. It must reach the dataset picker, not fall on the floor.
	res := selector.QueryResult{
		Items:      []selector.Option{{Value: "12", Label: "public.orders"}},
		TotalCount: 1,
	}
	model, _ := app.Update(queryResultMsg{
		seq: 1,
		req: selector.QueryRequest{PageSize: 25},
		res: res,
	})

	got, ok := model.(AppModel)
	require.True(t, ok)

	engine := got.picker.Engine()
	require.Len(t, engine.Options(), 1)
	assert.Equal(t, "public.orders", engine.Options()[0].Label)
	assert.False(t, engine.Loading(), "completion must settle the in-flight query")
}

func TestAppModel_DatasetPickerUsesConfiguredDebounce(t *testing.T) {
	interval := 120 * time.Millisecond
	app := NewAppModel(context.Background(), nil, nil, 0, "", 25, interval)

	d := app.picker.Engine().SearchTextChanged("ord")
	assert.Equal(t, interval, d.Delay)
}
