package suggest

// Range is an (offset, length) pair counted in Unicode scalar values (runes).
type Range struct {
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (r Range) End() int {
	return r.Offset + r.Length
}

// Intersects reports whether r and o overlap by at least one rune.
func (r Range) Intersects(o Range) bool {
	return max(r.Offset, o.Offset) < min(r.End(), o.End())
}

// clip fits a search range into a field of n runes. ok is false when the range
// is malformed, in which case the whole field stays searchable.
func (r Range) clip(n int) (Range, bool) {
	if r.Offset < 0 || r.Length < 0 || r.Offset > n {
		return Range{}, false
	}
	r.Length = min(r.Length, n-r.Offset)
	return r, true
}

// Item is one candidate suggestion. Its fields are treated as read-only once
// the item is handed to an Engine; per-pass match data lives in Result.
type Item struct {
	Title    string
	Subtitle string

	// Image and Object are passed through untouched.
	Image  any
	Object any

	// TitleSearchRange and SubtitleSearchRange restrict where a hit may land.
	// nil means the whole field is searchable.
	TitleSearchRange    *Range
	SubtitleSearchRange *Range
}

// NewItem creates an item with only a title.
func NewItem(title string) *Item {
	return &Item{Title: title}
}

// NewItemWithSubtitle creates an item with a title and a subtitle.
func NewItemWithSubtitle(title, subtitle string) *Item {
	return &Item{Title: title, Subtitle: subtitle}
}

// NewItemWithImage creates an item carrying an opaque image handle.
func NewItemWithImage(title, subtitle string, image any) *Item {
	return &Item{Title: title, Subtitle: subtitle, Image: image}
}

// NewObjectItem attaches a caller payload and pins both search ranges to the
// full length of their fields.
func NewObjectItem(title, subtitle string, object any) *Item {
	return NewRangedItem(title, subtitle,
		&Range{Length: runeCount(title)},
		&Range{Length: runeCount(subtitle)},
		object)
}

// NewRangedItem creates an item whose hits must intersect the given ranges.
func NewRangedItem(title, subtitle string, titleRange, subtitleRange *Range, object any) *Item {
	return &Item{
		Title:               title,
		Subtitle:            subtitle,
		Object:              object,
		TitleSearchRange:    titleRange,
		SubtitleSearchRange: subtitleRange,
	}
}

// ItemsFromStrings wraps plain strings as title-only items.
func ItemsFromStrings(strs []string) []*Item {
	items := make([]*Item, 0, len(strs))
	for _, s := range strs {
		items = append(items, NewItem(s))
	}
	return items
}
