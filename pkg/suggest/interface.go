// Package suggest is the core, filtering a candidate set against the text of an
// input field, producing highlight ranges and inline completions, and
// resolving what a pick or a submit commits.
//
// The engine does no rendering. A View receives snapshots of the results after
// every pass and a TextInput receives text assignments made by default
// selection actions. All methods of Engine must be called from one goroutine.
package suggest

// View is the dropdown/ghost-text collaborator. It must treat the results it
// receives as read-only.
type View interface {
	// ResultsChanged is called after every filter pass or clear.
	ResultsChanged(snap Snapshot)
	// InlineChanged reports the ghost-text suffix; "" clears it.
	InlineChanged(completion string)
	// LoadingChanged toggles the loading indicator.
	LoadingChanged(loading bool)
}

// TextInput is the editable text collaborator.
type TextInput interface {
	SetText(text string)
}

// SelectionHandler replaces the default "assign the title" action.
// results is the full filtered result set and index the picked position.
type SelectionHandler func(results []Result, index int)

// NopView ignores every notification. Embed it to implement part of View.
type NopView struct{}

func (NopView) ResultsChanged(Snapshot) {}
func (NopView) InlineChanged(string)    {}
func (NopView) LoadingChanged(bool)     {}

// ISuggester is the operation set the server drives.
type ISuggester interface {
	SetCandidates(items []*Item)
	TextChanged(text string)
	BeginEditing()
	EndEditing()
	EndEditingOnSubmit() Selection
	Select(index int) (Selection, error)
	Options() Options
	SetOptions(opts Options)
	SetTypingStoppedHandler(h func())
	Snapshot() Snapshot
	InlineCompletion() string
	Stats() map[string]int
	Close()
}

var _ ISuggester = (*Engine)(nil)
