package suggest

import (
	"time"

	"github.com/bastiangx/searchfield/internal/utils"
	"github.com/bastiangx/searchfield/pkg/typing"
	"github.com/charmbracelet/log"
)

// Engine owns the candidate set, the query state and the current results.
type Engine struct {
	opts       Options
	candidates []*Item
	index      *prefixIndex

	text    string
	results []Result
	inline  string

	interacted      bool
	keyboardShowing bool
	loading         bool
	passes          int

	view      View
	input     TextInput
	onSelect  SelectionHandler
	debouncer *typing.Debouncer
}

// NewEngine creates an engine with opts on the real clock.
func NewEngine(opts Options) *Engine {
	return NewEngineWithScheduler(opts, typing.Clock)
}

// NewEngineWithScheduler creates an engine whose typing-stopped timer runs on sched.
func NewEngineWithScheduler(opts Options, sched typing.Scheduler) *Engine {
	opts = opts.normalize()
	return &Engine{
		opts:      opts,
		view:      NopView{},
		debouncer: typing.NewWithScheduler(opts.TypingStoppedDelay, sched, nil),
	}
}

// SetView attaches the dropdown collaborator. nil detaches it.
func (e *Engine) SetView(v View) {
	if v == nil {
		v = NopView{}
	}
	e.view = v
}

// SetTextInput attaches the text collaborator used by default selection actions.
func (e *Engine) SetTextInput(in TextInput) {
	e.input = in
}

// SetSelectionHandler registers the pick handler. nil restores the default action.
func (e *Engine) SetSelectionHandler(h SelectionHandler) {
	e.onSelect = h
}

// SetTypingStoppedHandler registers the handler fired after the typing-stopped delay.
// The handler runs on the timer goroutine and must not call back into the Engine.
func (e *Engine) SetTypingStoppedHandler(h func()) {
	e.debouncer.SetHandler(h)
}

// Options returns the normalized options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetOptions replaces the options and re-derives the results for the current text.
func (e *Engine) SetOptions(opts Options) {
	prev := e.opts
	e.opts = opts.normalize()
	e.debouncer.SetDelay(e.opts.TypingStoppedDelay)
	if prev.Mode != e.opts.Mode {
		e.setInline("")
	}
	e.refresh()
}

// SetStartVisibleWithoutInteraction flips the flag; turning it on runs the
// text-changed path right away.
func (e *Engine) SetStartVisibleWithoutInteraction(on bool) {
	e.opts.StartVisibleWithoutInteraction = on
	if on {
		e.TextChanged(e.text)
	}
}

// SetCandidates replaces the candidate set and re-filters.
func (e *Engine) SetCandidates(items []*Item) {
	e.candidates = make([]*Item, 0, len(items))
	for _, item := range items {
		if item != nil {
			e.candidates = append(e.candidates, item)
		}
	}
	e.index = nil
	e.setInline("")
	e.Filter(e.opts.ForceNoFiltering)
	if e.opts.StartVisibleWithoutInteraction {
		e.TextChanged(e.text)
	}
}

// SetStrings is SetCandidates over title-only items.
func (e *Engine) SetStrings(strs []string) {
	e.SetCandidates(ItemsFromStrings(strs))
}

// Candidates returns the candidate set. Callers must not modify it.
func (e *Engine) Candidates() []*Item {
	return e.candidates
}

// Text returns the text the engine filters against.
func (e *Engine) Text() string {
	return e.text
}

// Filter recomputes the results from scratch. Unless forceShowAll is set, a
// text shorter than MinCharacters leaves the results empty. The view is
// notified in every case.
func (e *Engine) Filter(forceShowAll bool) []Result {
	start := time.Now()
	e.passes++
	e.results = nil

	if forceShowAll || utils.GraphemeCount(e.text) >= e.opts.MinCharacters {
		m := NewMatcher(e.text, e.opts, forceShowAll)
		if e.opts.Mode == Inline {
			e.results = e.filterInline(m)
		} else {
			e.results = e.filterStandard(m)
		}
	}

	log.Debugf("Filter pass %d (%s): %d/%d candidates matched in %v",
		e.passes, e.opts.Mode, len(e.results), len(e.candidates), time.Since(start))

	e.notify()
	if e.opts.Mode == Inline {
		e.setInline(inlineCompletion(e.text, e.results))
	}
	return e.results
}

func (e *Engine) filterStandard(m *Matcher) []Result {
	var results []Result
	for i, item := range e.candidates {
		match, ok := m.Standard(item)
		if !ok {
			continue
		}
		results = append(results, Result{
			Item:           item,
			Index:          i,
			TitleRanges:    match.TitleRanges,
			SubtitleRanges: match.SubtitleRanges,
		})
	}
	return results
}

func (e *Engine) filterInline(m *Matcher) []Result {
	if !m.InlineReady() {
		return nil
	}
	if e.index == nil {
		e.index = newPrefixIndex(e.candidates)
	}
	var results []Result
	for _, i := range e.index.lookup(m.inlinePrefix) {
		item := e.candidates[i]
		match, ok := m.inlineSuffix(item)
		if !ok {
			continue
		}
		results = append(results, Result{
			Item:       item,
			Index:      i,
			Completion: match.Completion,
		})
	}
	return results
}

// Results returns the full filtered result set of the last pass.
func (e *Engine) Results() []Result {
	return e.results
}

// Snapshot returns the capped view of the results the dropdown should render.
func (e *Engine) Snapshot() Snapshot {
	rows := e.results
	if e.opts.MaxResults > 0 && len(rows) > e.opts.MaxResults {
		rows = rows[:e.opts.MaxResults]
	}
	return Snapshot{
		Results: rows,
		Total:   len(e.results),
		Visible: e.interacted && len(e.results) > 0,
		Mode:    e.opts.Mode,
	}
}

// InlineCompletion returns the ghost-text suffix currently displayed.
func (e *Engine) InlineCompletion() string {
	return e.inline
}

// TextChanged is called on every edit. It re-arms the typing-stopped timer
// and re-derives the results.
func (e *Engine) TextChanged(text string) {
	e.text = text
	e.interacted = true
	e.debouncer.Notify()
	e.refresh()
}

func (e *Engine) refresh() {
	if e.text != "" {
		e.Filter(e.opts.ForceNoFiltering)
		return
	}
	e.clearResults()
	if e.opts.startsVisible() {
		e.Filter(true)
	}
	e.setInline("")
}

// BeginEditing runs a show-all pass when a start-visible flag is set and the
// field is empty, then clears the ghost text.
func (e *Engine) BeginEditing() {
	if e.opts.startsVisible() && e.text == "" {
		e.Filter(true)
	}
	e.setInline("")
}

// EndEditing clears the results and the ghost text.
func (e *Engine) EndEditing() {
	e.clearResults()
	e.setInline("")
}

// KeyboardShown marks the field as interacted with while it is being edited.
func (e *Engine) KeyboardShown(editing bool) {
	if e.keyboardShowing || !editing {
		return
	}
	e.keyboardShowing = true
	e.interacted = true
	e.notify()
}

// KeyboardHidden records that the keyboard went away.
func (e *Engine) KeyboardHidden() {
	if !e.keyboardShowing {
		return
	}
	e.keyboardShowing = false
	e.notify()
}

// InteractedWith reports whether the field received any interaction yet.
func (e *Engine) InteractedWith() bool {
	return e.interacted
}

// ShowLoadingIndicator tells the view to show its loading indicator.
func (e *Engine) ShowLoadingIndicator() {
	e.setLoading(true)
}

// StopLoadingIndicator tells the view to hide its loading indicator.
func (e *Engine) StopLoadingIndicator() {
	e.setLoading(false)
}

// Loading reports the loading indicator state.
func (e *Engine) Loading() bool {
	return e.loading
}

func (e *Engine) setLoading(on bool) {
	if e.loading == on {
		return
	}
	e.loading = on
	e.view.LoadingChanged(on)
}

// Close cancels the pending typing-stopped callback.
func (e *Engine) Close() {
	e.debouncer.Stop()
}

// Stats returns counters about the engine state
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{
		"candidates": len(e.candidates),
		"results":    len(e.results),
		"rows":       e.Snapshot().RowCount(),
		"passes":     e.passes,
	}
	if e.index != nil {
		stats["indexedTitles"] = e.index.titles
	}
	return stats
}

func (e *Engine) clearResults() {
	e.results = nil
	e.notify()
}

func (e *Engine) notify() {
	e.view.ResultsChanged(e.Snapshot())
}

func (e *Engine) setInline(completion string) {
	if e.inline == completion {
		return
	}
	e.inline = completion
	e.view.InlineChanged(completion)
}
