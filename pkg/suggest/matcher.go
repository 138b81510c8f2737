package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/searchfield/internal/utils"
)

// Match is the outcome of matching one item against the current text.
// Standard mode fills the highlight ranges, Inline mode fills Completion.
type Match struct {
	TitleRanges    []Range
	SubtitleRanges []Range
	Completion     string
}

// Matcher holds the query state of a single filter pass. Build it once per
// pass with NewMatcher and reuse it for every candidate.
type Matcher struct {
	query        []rune
	fold         bool
	forceShowAll bool

	inlinePrefix []rune
	inlineReady  bool
}

// NewMatcher prepares text for matching under opts.
func NewMatcher(text string, opts Options, forceShowAll bool) *Matcher {
	opts = opts.normalize()
	m := &Matcher{
		query:        []rune(text),
		fold:         opts.Comparison == CaseInsensitive,
		forceShowAll: forceShowAll,
	}
	if opts.Mode == Inline {
		prefix, ok := InlinePrefix(text, opts.StartFilteringAfter, opts.StartSuggestingImmediately)
		m.inlinePrefix, m.inlineReady = []rune(prefix), ok
	}
	return m
}

// InlinePrefix returns the folded prefix Inline mode matches titles against.
// The text is lowercased in normalization form C first. With a delimiter
// configured the prefix is the part after the delimiter's last occurrence in
// that folded text; ok is false when the delimiter is missing or the suffix is
// empty and immediately is not set. The result holds for the whole pass, not
// per item.
func InlinePrefix(text, after string, immediately bool) (prefix string, ok bool) {
	folded := string(utils.FoldNFC(text))
	if after == "" {
		return folded, true
	}
	i := strings.LastIndex(folded, after)
	if i < 0 {
		return "", false
	}
	suffix := folded[i+len(after):]
	if suffix == "" && !immediately {
		return "", false
	}
	return suffix, true
}

// InlineReady reports whether the pass can produce inline matches at all.
func (m *Matcher) InlineReady() bool {
	return m.inlineReady
}

// Standard finds the first occurrence of the query in the title and the
// subtitle. A hit outside a configured search range does not count. With
// forceShowAll every item matches, highlighted only where a hit exists.
func (m *Matcher) Standard(item *Item) (Match, bool) {
	title, titleHit := m.find(item.Title, item.TitleSearchRange)
	var sub Range
	subHit := false
	if item.Subtitle != "" {
		sub, subHit = m.find(item.Subtitle, item.SubtitleSearchRange)
	}
	if !titleHit && !subHit && !m.forceShowAll {
		return Match{}, false
	}

	var match Match
	if titleHit && title.Length > 0 {
		match.TitleRanges = []Range{title}
	}
	if subHit && sub.Length > 0 {
		match.SubtitleRanges = []Range{sub}
	}
	return match, true
}

func (m *Matcher) find(field string, restrict *Range) (Range, bool) {
	runes := []rune(field)
	off := utils.IndexRunes(runes, m.query, m.fold)
	if off < 0 {
		return Range{}, false
	}
	hit := Range{Offset: off, Length: len(m.query)}
	// the empty query matches everywhere, search ranges included
	if restrict == nil || hit.Length == 0 {
		return hit, true
	}
	bounds, ok := restrict.clip(len(runes))
	if !ok {
		return hit, true
	}
	if !hit.Intersects(bounds) {
		return Range{}, false
	}
	return hit, true
}

// Inline matches when the folded title starts with the inline prefix under
// canonical equivalence and the prefix ends on a grapheme boundary of the
// title. Completion is the rest of the title as stored.
func (m *Matcher) Inline(item *Item) (Match, bool) {
	if !m.inlineReady {
		return Match{}, false
	}
	return m.inlineSuffix(item)
}

func (m *Matcher) inlineSuffix(item *Item) (Match, bool) {
	end, ok := utils.CanonicalPrefixEnd(item.Title, m.inlinePrefix)
	if !ok {
		return Match{}, false
	}
	if !utils.IsGraphemeBoundary(item.Title, runeCount(item.Title[:end])) {
		return Match{}, false
	}
	return Match{Completion: item.Title[end:]}, true
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
