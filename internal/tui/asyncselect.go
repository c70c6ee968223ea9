package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

// Layout constants
const (
	defaultListHeight = 15
	loadMoreThreshold = 10 // rows from the end that trigger the next page
	chromeLines       = 7  // title, selection, input, status, help, margins
)

// Messages internal to the select model. Each completion carries the
// sequence/identity tag the engine uses to discard stale arrivals.
type (
	debounceMsg struct {
		token uint64
	}

	queryResultMsg struct {
		seq uint64
		req selector.QueryRequest
		res selector.QueryResult
		err error
	}

	resolveResultMsg struct {
		value string
		opt   selector.Option
		err   error
	}
)

// SelectConfig configures one remote-backed select view.
type SelectConfig struct {
	Title    string
	Provider selector.Provider

	Mode         selector.Mode
	PageSize     int
	CurrentValue string
	Scope        selector.Filter
	SearchField  string
	OrderColumn  string
	Placeholder  string
	Clearable    bool
	Debounce     time.Duration

	// Recent options are shown above remote results until the user starts
	// typing.
	Recent []selector.Option

	// OpenInBrowser enables ctrl+o on options carrying a "url" meta field.
	OpenInBrowser bool
}

// SelectModel is a searchable, pageable select view backed by a remote
// provider through a selector.Engine. The three entity pickers are thin
// wrappers around it.
type SelectModel struct {
	engine   *selector.Engine
	provider selector.Provider
	ctx      context.Context
	cfg      SelectConfig

	// UI components
	keymap      KeyMap
	help        help.Model
	spinner     spinner.Model
	searchInput textinput.Model

	// View state
	cursor     int
	offset     int
	width      int
	height     int
	errorToast string
}

// NewSelectModel creates a select view from cfg.
func NewSelectModel(ctx context.Context, cfg SelectConfig) SelectModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Prompt = "/ "
	ti.Focus()

	engine := selector.New(selector.Config{
		Mode:         cfg.Mode,
		PageSize:     cfg.PageSize,
		CurrentValue: cfg.CurrentValue,
		Scope:        cfg.Scope,
		SearchField:  cfg.SearchField,
		OrderColumn:  cfg.OrderColumn,
		Placeholder:  cfg.Placeholder,
		Label:        cfg.Title,
		Clearable:    cfg.Clearable,
		Debounce:     cfg.Debounce,
	})

	return SelectModel{
		engine:      engine,
		provider:    cfg.Provider,
		ctx:         ctx,
		cfg:         cfg,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		searchInput: ti,
		height:      defaultListHeight,
	}
}

// Engine exposes the underlying selection engine, mainly for tests.
func (m SelectModel) Engine() *selector.Engine {
	return m.engine
}

// Init starts the first-page query and, when a current value was supplied,
// its by-identifier resolution.
func (m SelectModel) Init() tea.Cmd {
	q, r, resolve := m.engine.Start()

	cmds := []tea.Cmd{
		m.spinner.Tick,
		textinput.Blink,
		tea.WindowSize(),
		m.runQuery(q),
	}
	if resolve {
		cmds = append(cmds, m.runResolve(r))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m SelectModel) Update(msg tea.Msg) (SelectModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - chromeLines
		if m.height < 3 {
			m.height = 3
		}
		m.clampCursor()
		return m, nil

	case debounceMsg:
		// Stale tokens are rejected inside the engine.
		if q, ok := m.engine.DebounceElapsed(msg.token); ok {
			m.cursor = 0
			m.offset = 0
			return m, m.runQuery(q)
		}
		return m, nil

	case queryResultMsg:
		m.engine.ApplyQueryResult(msg.seq, msg.req, msg.res, msg.err)
		if err := m.engine.Err(); err != nil {
			m.errorToast = fmt.Sprintf("Load failed: %v", err)
		} else {
			m.errorToast = ""
		}
		m.clampCursor()
		return m, nil

	case resolveResultMsg:
		m.engine.ApplyResolution(msg.value, msg.opt, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input. Plain runes fall through to the
// search input; everything else is an action or navigation key.
func (m SelectModel) handleKeyPress(msg tea.KeyMsg) (SelectModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.engine.Close()
		return m, emit(QuitMsg{})

	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
		return m, m.maybeLoadMore()

	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-m.height)
		return m, nil

	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(m.height)
		return m, m.maybeLoadMore()

	case key.Matches(msg, m.keymap.Accept):
		return m.accept()

	case key.Matches(msg, m.keymap.Toggle):
		m.toggleCurrent()
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		if m.engine.Clearable() && m.engine.Phase() != selector.PhaseEmpty {
			m.engine.Clear()
			return m, emit(SelectionClearedMsg{})
		}
		return m, nil

	case key.Matches(msg, m.keymap.Open):
		if !m.cfg.OpenInBrowser {
			return m, nil
		}
		if opt, ok := m.Highlighted(); ok && opt.Meta["url"] != "" {
			return m, openURL(opt.Meta["url"])
		}
		return m, nil
	}

	// Everything else feeds the search input.
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if m.searchInput.Value() != before {
		d := m.engine.SearchTextChanged(m.searchInput.Value())
		return m, tea.Batch(cmd, debounceAfter(d))
	}
	return m, cmd
}

// accept picks the highlighted option (single mode) or confirms the current
// selection (multi mode).
func (m SelectModel) accept() (SelectModel, tea.Cmd) {
	if m.cfg.Mode == selector.ModeMulti {
		m.engine.Close()
		return m, emit(SelectionConfirmedMsg{Options: m.engine.Selected()})
	}

	opt, ok := m.Highlighted()
	if !ok {
		return m, nil
	}
	m.engine.Pick(opt)
	m.engine.Close()
	return m, emit(OptionPickedMsg{Option: opt})
}

// toggleCurrent flips the highlighted option's membership in a multi
// selection.
func (m *SelectModel) toggleCurrent() {
	if m.cfg.Mode != selector.ModeMulti {
		return
	}
	opt, ok := m.Highlighted()
	if !ok {
		return
	}
	for _, s := range m.engine.Selected() {
		if s.Value == opt.Value {
			m.engine.Unpick(opt.Value)
			return
		}
	}
	m.engine.Pick(opt)
}

// Highlighted returns the option under the cursor.
func (m SelectModel) Highlighted() (selector.Option, bool) {
	rows := m.visibleOptions()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return selector.Option{}, false
	}
	return rows[m.cursor], true
}

// visibleOptions returns the rows to render: recent picks first (until the
// user starts typing), then remote results minus duplicates.
func (m SelectModel) visibleOptions() []selector.Option {
	remote := m.engine.Options()
	if m.searchInput.Value() != "" || len(m.cfg.Recent) == 0 {
		return remote
	}

	seen := make(map[string]bool, len(m.cfg.Recent))
	rows := make([]selector.Option, 0, len(m.cfg.Recent)+len(remote))
	for _, opt := range m.cfg.Recent {
		seen[opt.Value] = true
		rows = append(rows, opt)
	}
	for _, opt := range remote {
		if !seen[opt.Value] {
			rows = append(rows, opt)
		}
	}
	return rows
}

// maybeLoadMore requests the next page when the cursor approaches the end
// of the loaded list.
func (m *SelectModel) maybeLoadMore() tea.Cmd {
	rows := m.visibleOptions()
	if m.cursor < len(rows)-loadMoreThreshold {
		return nil
	}
	if q, ok := m.engine.LoadNextPage(); ok {
		return m.runQuery(q)
	}
	return nil
}

func (m *SelectModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *SelectModel) clampCursor() {
	rows := len(m.visibleOptions())
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the select control.
func (m SelectModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.cfg.Title))
	b.WriteString("\n")

	// Current selection line.
	switch m.engine.Phase() {
	case selector.PhaseResolving:
		b.WriteString(DimStyle.Render("Selected: ") + ResolvingStyle.Render(m.engine.SelectionLabel()))
	case selector.PhaseResolved:
		labels := make([]string, 0, len(m.engine.Selected()))
		for _, s := range m.engine.Selected() {
			labels = append(labels, s.Label)
		}
		b.WriteString(DimStyle.Render("Selected: ") + SelectedItemStyle.Render(strings.Join(labels, ", ")))
	default:
		b.WriteString(DimStyle.Render("Selected: none"))
	}
	b.WriteString("\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderOptions())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(HelpStyle.Render(m.help.View(m.keymap)))

	return b.String()
}

func (m SelectModel) renderOptions() string {
	rows := m.visibleOptions()
	if len(rows) == 0 {
		if m.engine.Loading() {
			return DimStyle.Render("  " + m.spinner.View() + " loading...")
		}
		if m.engine.NotFound() {
			return DimStyle.Render("  No matches found")
		}
		return DimStyle.Render("  (no options)")
	}

	selected := make(map[string]bool)
	for _, s := range m.engine.Selected() {
		selected[s.Value] = true
	}

	end := m.offset + m.height
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		opt := rows[i]

		marker := "  "
		if m.cfg.Mode == selector.ModeMulti {
			marker = "[ ] "
			if selected[opt.Value] {
				marker = "[x] "
			}
		}

		line := marker + opt.Label
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if end < len(rows) || m.engine.HasMore() {
		b.WriteString(DimStyle.Render("  ↓ more"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m SelectModel) renderStatus() string {
	var parts []string

	if total := m.engine.TotalCount(); total >= 0 {
		parts = append(parts, fmt.Sprintf("%d of %d loaded", len(m.engine.Options()), total))
	}
	if m.engine.Loading() {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if m.errorToast != "" {
		parts = append(parts, ErrorStyle.Render(m.errorToast))
	}

	return DimStyle.Render(strings.Join(parts, "  ")) + "\n"
}

// --- commands ---

// runQuery executes one list query against the provider.
func (m SelectModel) runQuery(q selector.QueryDirective) tea.Cmd {
	provider, ctx := m.provider, m.ctx
	return func() tea.Msg {
		res, err := provider.Query(ctx, q.Req)
		return queryResultMsg{seq: q.Seq, req: q.Req, res: res, err: err}
	}
}

// runResolve executes one by-identifier fetch against the provider.
func (m SelectModel) runResolve(r selector.ResolveDirective) tea.Cmd {
	provider, ctx := m.provider, m.ctx
	return func() tea.Msg {
		opt, err := provider.FetchByID(ctx, r.Value)
		return resolveResultMsg{value: r.Value, opt: opt, err: err}
	}
}

// debounceAfter schedules the engine callback for a debounce directive.
func debounceAfter(d selector.DebounceDirective) tea.Cmd {
	return tea.Tick(d.Delay, func(time.Time) tea.Msg {
		return debounceMsg{token: d.Token}
	})
}

func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			return ErrorMsg{Err: fmt.Errorf("open %s: %w", url, err)}
		}
		return nil
	}
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
