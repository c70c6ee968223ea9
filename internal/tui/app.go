package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/umarmehmood-wq/superset/internal/api"
	"github.com/umarmehmood-wq/superset/internal/history"
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenDatasetPicker AppScreen = iota
	ScreenColumnPicker
	ScreenChartPicker
	ScreenSummary
)

// recentLimit is how many recent picks each picker shows above results.
const recentLimit = 5

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from dataset selection -> column selection ->
// chart selection -> summary.
type AppModel struct {
	// Dependencies
	client  *api.Client
	history *history.Store
	ctx     context.Context

	// CLI flags (pre-filled values)
	datasetFlag int
	chartFlag   string

	// Picker tuning
	pageSize int
	debounce time.Duration

	// Current state
	currentScreen AppScreen
	picker        SelectModel
	err           error

	// Resolved context (accumulated through the flow)
	dataset selector.Option
	columns []selector.Option
	chart   selector.Option
}

// NewAppModel creates a new app model with optional CLI flag values.
// Pass 0 / empty string to skip pre-filling. The dataset picker is
// constructed here so completion messages are routable before the first
// Update runs.
func NewAppModel(ctx context.Context, client *api.Client, hist *history.Store, datasetFlag int, chartFlag string, pageSize int, debounce time.Duration) AppModel {
	m := AppModel{
		client:        client,
		history:       hist,
		ctx:           ctx,
		datasetFlag:   datasetFlag,
		chartFlag:     chartFlag,
		pageSize:      pageSize,
		debounce:      debounce,
		currentScreen: ScreenDatasetPicker,
	}

	var current string
	if datasetFlag > 0 {
		current = strconv.Itoa(datasetFlag)
	}
	m.picker = NewDatasetPicker(ctx, DatasetPickerOptions{
		Provider:     &api.DatasetProvider{Client: client},
		CurrentValue: current,
		Recent:       m.recentFor(history.KindDataset),
		PageSize:     pageSize,
		Debounce:     debounce,
	})
	return m
}

// Init starts the dataset picker's initial fetches.
func (m AppModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case OptionPickedMsg:
		return m.advance(msg.Option)

	case SelectionConfirmedMsg:
		// Only the column picker is multi-select.
		if m.currentScreen == ScreenColumnPicker {
			m.columns = msg.Options
			m.rememberAll(history.KindColumn, msg.Options)
			return m.showChartPicker()
		}
		return m, nil

	case SelectionClearedMsg:
		// Clearing stays on the current screen; nothing to accumulate.
		return m, nil
	}

	if m.currentScreen == ScreenSummary {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	// Delegate to the active picker.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// advance consumes a single-select pick and moves to the next screen.
func (m AppModel) advance(opt selector.Option) (tea.Model, tea.Cmd) {
	switch m.currentScreen {
	case ScreenDatasetPicker:
		m.dataset = opt
		m.remember(history.KindDataset, opt)
		return m.showColumnPicker()

	case ScreenChartPicker:
		m.chart = opt
		m.remember(history.KindChart, opt)
		m.currentScreen = ScreenSummary
		return m, nil
	}
	return m, nil
}

func (m AppModel) showColumnPicker() (tea.Model, tea.Cmd) {
	id, err := strconv.Atoi(m.dataset.Value)
	if err != nil {
		m.err = fmt.Errorf("bad dataset identifier %q", m.dataset.Value)
		return m, nil
	}

	picker := NewColumnPicker(m.ctx, ColumnPickerOptions{
		Provider:  &api.ColumnProvider{Client: m.client},
		DatasetID: id,
		PageSize:  m.pageSize,
		Debounce:  m.debounce,
	})
	m.currentScreen = ScreenColumnPicker
	m.picker = picker
	return m, picker.Init()
}

func (m AppModel) showChartPicker() (tea.Model, tea.Cmd) {
	id, err := strconv.Atoi(m.dataset.Value)
	if err != nil {
		m.err = fmt.Errorf("bad dataset identifier %q", m.dataset.Value)
		return m, nil
	}

	picker := NewChartPicker(m.ctx, ChartPickerOptions{
		Provider:     &api.ChartProvider{Client: m.client},
		DatasetID:    id,
		CurrentValue: m.chartFlag,
		Recent:       m.recentFor(history.KindChart),
		PageSize:     m.pageSize,
		Debounce:     m.debounce,
	})
	m.currentScreen = ScreenChartPicker
	m.picker = picker
	return m, picker.Init()
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	if m.currentScreen == ScreenSummary {
		return m.summaryView()
	}
	return m.picker.View()
}

// remember records a pick in the history store. History failures are not
// worth interrupting the flow for.
func (m AppModel) remember(kind string, opt selector.Option) {
	if m.history == nil {
		return
	}
	_ = m.history.Touch(kind, opt.Value, opt.Label)
}

func (m AppModel) rememberAll(kind string, opts []selector.Option) {
	for _, opt := range opts {
		m.remember(kind, opt)
	}
}

func (m AppModel) recentFor(kind string) []selector.Option {
	if m.history == nil {
		return nil
	}
	recent, err := m.history.Recent(kind, recentLimit)
	if err != nil {
		return nil
	}
	return recent
}
