package selector

import "context"

// Operator is a filter predicate operator understood by the remote query
// service.
type Operator string

const (
	// OpEquals matches a field exactly.
	OpEquals Operator = "eq"
	// OpContains matches free text within a field.
	OpContains Operator = "ct"
)

// Option is the unit of display and selection. Value is an opaque, stable
// identifier unique within one data source; Label is derived from source
// fields for display only.
type Option struct {
	Value string
	Label string
	Meta  map[string]string // display-only metadata, never identity
}

// Filter is one (field, operator, value) predicate. Sequences of filters
// compose with AND semantics.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

// QueryRequest describes one page fetch against the remote query service.
type QueryRequest struct {
	SearchText  string
	PageIndex   int // zero-based
	PageSize    int
	Filters     []Filter
	OrderColumn string
	OrderDesc   bool
}

// QueryResult is one page of options plus the total match count across all
// pages.
type QueryResult struct {
	Items      []Option
	TotalCount int
}

// Provider is the remote data collaborator: a stateless, reentrant query
// service safe for concurrent outstanding calls.
type Provider interface {
	// Query returns one page of matching options.
	Query(ctx context.Context, req QueryRequest) (QueryResult, error)
	// FetchByID returns the option for a single identifier. A missing
	// entity is reported as an error (the engine turns it into a fallback
	// label, never a dropped selection).
	FetchByID(ctx context.Context, id string) (Option, error)
}
