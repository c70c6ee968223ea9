// Package tui provides Bubble Tea models for the interactive picker flow.
package tui

import (
	"github.com/umarmehmood-wq/superset/internal/selector"
)

// OptionPickedMsg is emitted when the user picks an option in a
// single-select picker.
type OptionPickedMsg struct {
	Option selector.Option
}

// SelectionConfirmedMsg is emitted when the user confirms a multi-select
// picker. Options carries the ordered selection; it may be empty.
type SelectionConfirmedMsg struct {
	Options []selector.Option
}

// SelectionClearedMsg is emitted when the user clears a clearable picker.
type SelectionClearedMsg struct{}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}
