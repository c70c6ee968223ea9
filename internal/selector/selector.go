// Package selector implements the interaction core of a remote-backed,
// searchable, pageable select control. It owns search debouncing, pagination
// cursors, and reconciliation of an externally-supplied current value against
// a lazily-loaded option list, following the "deep modules" principle - the
// host UI only forwards events and executes the fetch directives the engine
// hands back.
//
// The engine is deliberately single-threaded: all mutation happens on the
// host's event loop (a Bubble Tea Update cycle, typically). Fetches complete
// in arbitrary order; superseded completions are discarded on arrival via
// sequence and identity checks rather than hard cancellation.
package selector

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mode selects between single- and multi-valued selection.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

// Phase describes the lifecycle of the current selection.
type Phase int

const (
	// PhaseEmpty means no value is selected.
	PhaseEmpty Phase = iota
	// PhaseResolving means an identifier is known but its label is still loading.
	PhaseResolving
	// PhaseResolved means both identifier and label are known.
	PhaseResolved
)

// ResolvingLabel is the placeholder shown while a selection label loads.
// It is never a stale label from a previous selection.
const ResolvingLabel = "Loading…"

const (
	defaultPageSize   = 50
	defaultDebounce   = 250 * time.Millisecond
	labelCacheEntries = 256
)

// Config enumerates the consumer-facing surface of an engine instance.
// The zero value of every field is usable.
type Config struct {
	Mode     Mode
	PageSize int // fixed for the life of the instance; defaults to 50

	// CurrentValue is the externally-owned identifier at mount, empty for none.
	CurrentValue string

	// Scope restricts every issued query with an equality predicate,
	// e.g. {Field: "datasource_id", Value: "123"}. Zero value means unscoped.
	Scope Filter

	// SearchField is the primary label field searched with a contains
	// predicate and used as the default ordering column.
	SearchField string

	// OrderColumn overrides the default ordering (SearchField ascending).
	OrderColumn string

	Placeholder string
	Label       string // accessibility/display label for the control
	Clearable   bool

	// Debounce is the idle window coalescing rapid search keystrokes.
	Debounce time.Duration

	// OnChange receives the ordered selected identifiers after every
	// user-driven change. Nil slice means cleared. Single mode delivers at
	// most one element.
	OnChange func(values []string)
}

// QueryDirective instructs the host to run Provider.Query and feed the result
// back through ApplyQueryResult with the same sequence number.
type QueryDirective struct {
	Seq uint64
	Req QueryRequest
}

// ResolveDirective instructs the host to run Provider.FetchByID and feed the
// result back through ApplyResolution for the same value.
type ResolveDirective struct {
	Value string
}

// DebounceDirective instructs the host to call DebounceElapsed with Token
// after Delay. A newer directive supersedes older tokens.
type DebounceDirective struct {
	Token uint64
	Delay time.Duration
}

// Engine is the selection state machine. It is not safe for concurrent use;
// drive it from a single event loop.
type Engine struct {
	cfg Config

	// selection
	phase    Phase
	selected []Option // resolved options, ordered; len<=1 in single mode
	pending  string   // identifier being resolved in PhaseResolving

	// loaded option list
	options  []Option
	total    int // TotalCount from the last applied result, -1 before any
	notFound bool

	// search / pagination
	inputText  string // latest raw keystroke text
	searchText string // committed (post-debounce) text driving the list
	nextPage   int    // zero-based index of the next page to request

	// ordering guards
	querySeq      uint64 // latest issued list-query sequence
	debounceToken uint64
	inFlight      bool // a list query is outstanding
	closed        bool

	lastErr error // last query failure, cleared on the next applied result

	labels *lru.Cache[string, Option] // identifier -> resolved option
}

// New creates an engine from cfg. Call Start to obtain the initial fetch
// directives.
func New(cfg Config) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.SearchField == "" {
		cfg.SearchField = "name"
	}

	cache, _ := lru.New[string, Option](labelCacheEntries)
	return &Engine{
		cfg:    cfg,
		total:  -1,
		labels: cache,
	}
}

// Start returns the directives the host must execute immediately: the
// first-page query and, when CurrentValue was configured, a by-identifier
// resolution (resolve reports whether the second directive is live).
func (e *Engine) Start() (q QueryDirective, r ResolveDirective, resolve bool) {
	q = e.issueReset()
	if e.cfg.CurrentValue != "" {
		e.phase = PhaseResolving
		e.pending = e.cfg.CurrentValue
		r = ResolveDirective{Value: e.cfg.CurrentValue}
		resolve = true
	}
	return q, r, resolve
}

// Close prevents any further state mutation from in-flight completions.
func (e *Engine) Close() {
	e.closed = true
}

// --- search ---

// SearchTextChanged records a keystroke and returns the debounce directive
// that, once elapsed, commits the text. Rapid calls supersede older tokens.
func (e *Engine) SearchTextChanged(text string) DebounceDirective {
	e.inputText = text
	e.debounceToken++
	return DebounceDirective{Token: e.debounceToken, Delay: e.cfg.Debounce}
}

// DebounceElapsed commits the pending search text when token is still
// current. It returns the page-zero query to issue, or ok=false when the
// token was superseded or the text is unchanged.
func (e *Engine) DebounceElapsed(token uint64) (QueryDirective, bool) {
	if e.closed || token != e.debounceToken {
		return QueryDirective{}, false
	}
	if e.inputText == e.searchText {
		return QueryDirective{}, false
	}
	e.searchText = e.inputText
	return e.issueReset(), true
}

// --- pagination ---

// LoadNextPage requests the page after the last applied one. It returns
// ok=false while a query is outstanding or when every page is loaded; asking
// past TotalCount is a no-op, not an error.
func (e *Engine) LoadNextPage() (QueryDirective, bool) {
	if e.closed || e.inFlight {
		return QueryDirective{}, false
	}
	if e.total >= 0 && len(e.options) >= e.total {
		return QueryDirective{}, false
	}
	e.querySeq++
	e.inFlight = true
	return QueryDirective{Seq: e.querySeq, Req: e.buildRequest(e.nextPage)}, true
}

// HasMore reports whether pages remain beyond the loaded option list.
func (e *Engine) HasMore() bool {
	return e.total < 0 || len(e.options) < e.total
}

// --- scope ---

// ScopeChanged swaps the scoping predicate and returns a fresh first-page
// query. Passing the zero Filter removes the scope; that too re-queries,
// since the filter set changed. An existing resolved selection is retained -
// consumers wanting reset-on-scope-change call ExternalValueChanged("") as
// well.
func (e *Engine) ScopeChanged(scope Filter) QueryDirective {
	e.cfg.Scope = scope
	return e.issueReset()
}

// --- query completion ---

// ApplyQueryResult feeds a list-query completion back into the engine.
// Stale completions (seq below the latest issued, or arriving after Close)
// are discarded silently. A failed query surfaces an empty increment and
// leaves the engine ready for the next user-triggered query.
func (e *Engine) ApplyQueryResult(seq uint64, req QueryRequest, res QueryResult, err error) {
	if e.closed || seq != e.querySeq {
		return
	}
	e.inFlight = false

	if err != nil {
		e.lastErr = err
		if req.PageIndex == 0 {
			e.options = nil
			e.total = -1
			e.nextPage = 0
			e.notFound = false
		}
		return
	}
	e.lastErr = nil

	if req.PageIndex == 0 {
		e.options = res.Items
	} else {
		e.options = append(e.options, res.Items...)
	}
	e.total = res.TotalCount
	e.nextPage = req.PageIndex + 1
	e.notFound = len(e.options) == 0 && e.searchText != ""

	for _, opt := range res.Items {
		e.labels.Add(opt.Value, opt)
	}
}

// --- selection ---

// Pick applies a user selection. Single mode replaces the selection; multi
// mode appends the option when absent. OnChange fires with the updated
// ordered identifiers.
func (e *Engine) Pick(opt Option) {
	if e.closed {
		return
	}
	e.labels.Add(opt.Value, opt)
	e.pending = ""

	if e.cfg.Mode == ModeSingle {
		e.selected = []Option{opt}
	} else {
		for _, s := range e.selected {
			if s.Value == opt.Value {
				return // already selected
			}
		}
		e.selected = append(e.selected, opt)
	}
	e.phase = PhaseResolved
	e.notifyChange()
}

// Unpick removes value from a multi selection. Single mode ignores it; use
// Clear instead.
func (e *Engine) Unpick(value string) {
	if e.closed || e.cfg.Mode != ModeMulti {
		return
	}
	for i, s := range e.selected {
		if s.Value == value {
			e.selected = append(e.selected[:i], e.selected[i+1:]...)
			if len(e.selected) == 0 {
				e.phase = PhaseEmpty
			}
			e.notifyChange()
			return
		}
	}
}

// Clear empties the selection and reports nil to OnChange exactly once.
// It is a no-op unless the control is clearable and something is selected.
func (e *Engine) Clear() {
	if e.closed || !e.cfg.Clearable {
		return
	}
	if e.phase == PhaseEmpty {
		return
	}
	e.phase = PhaseEmpty
	e.selected = nil
	e.pending = ""
	e.notifyChange()
}

// ExternalValueChanged reconciles a change of the externally-owned
// identifier (not caused by interaction inside this control):
//
//   - empty value: selection becomes Empty, no fetch
//   - value equal to the current resolved identifier: strict no-op, no fetch
//   - otherwise: Resolving, with a by-identifier fetch unless the label is
//     already cached
//
// The operation carries exactly one identifier; in multi mode a differing
// value replaces the whole selection with that single element.
//
// OnChange does not fire - the external owner already holds this value.
func (e *Engine) ExternalValueChanged(value string) (ResolveDirective, bool) {
	if e.closed {
		return ResolveDirective{}, false
	}
	if value == "" {
		e.phase = PhaseEmpty
		e.selected = nil
		e.pending = ""
		return ResolveDirective{}, false
	}
	if e.phase == PhaseResolved && len(e.selected) == 1 && e.selected[0].Value == value {
		return ResolveDirective{}, false
	}

	if opt, ok := e.labels.Get(value); ok {
		e.phase = PhaseResolved
		e.selected = []Option{opt}
		e.pending = ""
		return ResolveDirective{}, false
	}

	e.phase = PhaseResolving
	e.pending = value
	e.selected = nil
	return ResolveDirective{Value: value}, true
}

// ApplyResolution feeds a by-identifier completion back into the engine.
// The result applies only when value still equals the pending identifier;
// a late completion for a superseded identifier is discarded. Failure or an
// identifier mismatch falls back to a label echoing the identifier - the
// selection is never silently dropped and never sticks in Resolving.
func (e *Engine) ApplyResolution(value string, opt Option, err error) {
	if e.closed || e.phase != PhaseResolving || e.pending != value {
		return
	}

	if err != nil || opt.Value != value {
		opt = Option{Value: value, Label: value}
	} else {
		e.labels.Add(opt.Value, opt)
	}
	e.phase = PhaseResolved
	e.selected = []Option{opt}
	e.pending = ""
}

// --- accessors ---

// Options returns the currently loaded option list, in received order.
func (e *Engine) Options() []Option { return e.options }

// TotalCount returns the server-reported total, or -1 before the first
// applied result.
func (e *Engine) TotalCount() int { return e.total }

// Phase returns the selection lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Selected returns the ordered selected options. During PhaseResolving the
// slice is empty; use SelectionLabel for display.
func (e *Engine) Selected() []Option { return e.selected }

// SelectedValues returns the ordered selected identifiers.
func (e *Engine) SelectedValues() []string {
	if len(e.selected) == 0 {
		return nil
	}
	values := make([]string, len(e.selected))
	for i, s := range e.selected {
		values[i] = s.Value
	}
	return values
}

// SelectionLabel returns the display text for the current selection: the
// configured placeholder when empty, a loading placeholder while resolving,
// and the resolved label otherwise.
func (e *Engine) SelectionLabel() string {
	switch e.phase {
	case PhaseResolving:
		return ResolvingLabel
	case PhaseResolved:
		if len(e.selected) > 0 {
			return e.selected[0].Label
		}
	}
	return e.cfg.Placeholder
}

// SearchText returns the committed search text driving the option list.
func (e *Engine) SearchText() string { return e.searchText }

// NotFound reports an empty first page under an active search - a display
// concern, not an error.
func (e *Engine) NotFound() bool { return e.notFound }

// Loading reports whether a list query is outstanding.
func (e *Engine) Loading() bool { return e.inFlight }

// Err returns the failure of the most recent list query, or nil. Stale and
// superseded completions never surface here.
func (e *Engine) Err() error { return e.lastErr }

// Label returns the configured accessibility/display label.
func (e *Engine) Label() string { return e.cfg.Label }

// Clearable reports whether the clear action is permitted.
func (e *Engine) Clearable() bool { return e.cfg.Clearable }

// --- internals ---

// issueReset starts a fresh page-zero query, superseding everything
// outstanding.
func (e *Engine) issueReset() QueryDirective {
	e.querySeq++
	e.inFlight = true
	e.nextPage = 0
	e.total = -1
	return QueryDirective{Seq: e.querySeq, Req: e.buildRequest(0)}
}

// buildRequest composes the filter predicate as the AND of free-text
// containment on the primary search field and the scope equality, ordered by
// the primary field ascending unless overridden.
func (e *Engine) buildRequest(pageIndex int) QueryRequest {
	var filters []Filter
	if e.searchText != "" {
		filters = append(filters, Filter{Field: e.cfg.SearchField, Op: OpContains, Value: e.searchText})
	}
	if e.cfg.Scope.Field != "" {
		filters = append(filters, Filter{Field: e.cfg.Scope.Field, Op: OpEquals, Value: e.cfg.Scope.Value})
	}

	order := e.cfg.OrderColumn
	if order == "" {
		order = e.cfg.SearchField
	}
	return QueryRequest{
		SearchText:  e.searchText,
		PageIndex:   pageIndex,
		PageSize:    e.cfg.PageSize,
		Filters:     filters,
		OrderColumn: order,
	}
}

func (e *Engine) notifyChange() {
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(e.SelectedValues())
	}
}
