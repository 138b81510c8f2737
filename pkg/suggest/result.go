package suggest

// Result is one filtered candidate plus the match data of the pass that
// produced it.
type Result struct {
	Item *Item
	// Index is the item's position in the candidate set.
	Index int

	TitleRanges    []Range
	SubtitleRanges []Range
	// Completion is the inline suffix of the title, Inline mode only.
	Completion string
}

// Snapshot is what the view renders after a pass.
type Snapshot struct {
	// Results holds the rows to display, already capped by MaxResults.
	Results []Result
	// Total is the uncapped number of filtered results.
	Total int
	// Visible is false while the field has not been interacted with or
	// nothing matched.
	Visible bool
	Mode    Mode
}

// RowCount is the number of rows the view should display.
func (s Snapshot) RowCount() int {
	return len(s.Results)
}
