package suggest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned when a row index does not address a result.
var ErrIndexOutOfRange = errors.New("selection index out of range")

// IndexError reports a pick outside the current results.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, %d results", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Action is what a pick or a commit ended up doing.
type Action uint8

const (
	// ActionNone means nothing was committed.
	ActionNone Action = iota
	// ActionHandler means the registered SelectionHandler was invoked.
	ActionHandler
	// ActionAssignText means the default action replaced the input text.
	ActionAssignText
)

func (a Action) String() string {
	switch a {
	case ActionHandler:
		return "handler"
	case ActionAssignText:
		return "assign"
	}
	return "none"
}

// Selection describes the outcome of Select or EndEditingOnSubmit.
type Selection struct {
	Action Action
	Item   *Item
	Index  int
	// Text is the assigned text for ActionAssignText.
	Text string
}

// Select picks the result at index. The registered handler runs if there is
// one, otherwise the text becomes the item's title. The results are cleared
// either way.
func (e *Engine) Select(index int) (Selection, error) {
	if index < 0 || index >= len(e.results) {
		return Selection{}, &IndexError{Index: index, Len: len(e.results)}
	}
	return e.pick(index, e.results[index].Item.Title), nil
}

// EndEditingOnSubmit commits the top result, if any, and ends editing.
// In Inline mode with a delimiter the default action keeps the text before the
// first delimiter and appends the delimiter and the title; a text without the
// delimiter commits nothing.
func (e *Engine) EndEditingOnSubmit() Selection {
	sel := e.Commit()
	e.EndEditing()
	return sel
}

// Commit resolves a submit against the top result without ending editing.
func (e *Engine) Commit() Selection {
	if len(e.results) == 0 {
		return Selection{}
	}
	if e.onSelect != nil {
		return e.pick(0, "")
	}
	text, ok := e.commitText(e.results[0].Item)
	if !ok {
		return Selection{}
	}
	return e.pick(0, text)
}

func (e *Engine) commitText(item *Item) (string, bool) {
	after := e.opts.StartFilteringAfter
	if e.opts.Mode != Inline || after == "" {
		return item.Title, true
	}
	before, _, found := strings.Cut(e.text, after)
	if !found {
		return "", false
	}
	return before + after + item.Title, true
}

func (e *Engine) pick(index int, text string) Selection {
	results := e.results
	sel := Selection{Item: results[index].Item, Index: index}
	if e.onSelect != nil {
		sel.Action = ActionHandler
		e.onSelect(results, index)
	} else {
		sel.Action = ActionAssignText
		sel.Text = text
		e.text = text
		if e.input != nil {
			e.input.SetText(text)
		}
	}
	e.clearResults()
	e.setInline("")
	return sel
}
