package suggest

import (
	"reflect"
	"testing"
)

func standardMatch(t *testing.T, text string, item *Item, opts Options, forceShowAll bool) (Match, bool) {
	t.Helper()
	return NewMatcher(text, opts, forceShowAll).Standard(item)
}

func TestMatcherStandard(t *testing.T) {
	sensitive := DefaultOptions()
	sensitive.Comparison = CaseSensitive

	testCases := []struct {
		description string
		text        string
		item        *Item
		opts        Options
		matched     bool
		title       []Range
		subtitle    []Range
	}{
		{"prefix hit", "ap", NewItem("Apple"), DefaultOptions(), true, []Range{{0, 2}}, nil},
		{"middle hit", "app", NewItem("Pineapple"), DefaultOptions(), true, []Range{{4, 3}}, nil},
		{"first occurrence only", "an", NewItem("banana"), DefaultOptions(), true, []Range{{1, 2}}, nil},
		{"no hit", "xyz", NewItem("Apple"), DefaultOptions(), false, nil, nil},
		{"case sensitive miss", "ap", NewItem("Apple"), sensitive, false, nil, nil},
		{"case sensitive hit", "Ap", NewItem("Apple"), sensitive, true, []Range{{0, 2}}, nil},
		{"subtitle only", "pie", NewItemWithSubtitle("Dessert", "apple pie"), DefaultOptions(), true, nil, []Range{{6, 3}}},
		{"title and subtitle", "a", NewItemWithSubtitle("Cake", "carrot"), DefaultOptions(), true, []Range{{1, 1}}, []Range{{1, 1}}},
		{"empty query", "", NewItemWithSubtitle("Apple", "fruit"), DefaultOptions(), true, nil, nil},
		{"unicode fold", "école", NewItem("ÉCOLE normale"), DefaultOptions(), true, []Range{{0, 5}}, nil},
		{"rune offsets", "ße", NewItem("Straße"), DefaultOptions(), true, []Range{{4, 2}}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			match, ok := standardMatch(t, tc.text, tc.item, tc.opts, false)
			if ok != tc.matched {
				t.Fatalf("Text %q on %q: expected matched=%v, got %v", tc.text, tc.item.Title, tc.matched, ok)
			}
			if !reflect.DeepEqual(match.TitleRanges, tc.title) {
				t.Errorf("Expected title ranges %v, got %v", tc.title, match.TitleRanges)
			}
			if !reflect.DeepEqual(match.SubtitleRanges, tc.subtitle) {
				t.Errorf("Expected subtitle ranges %v, got %v", tc.subtitle, match.SubtitleRanges)
			}
		})
	}
}

// hits outside a search range must never show up
func TestMatcherSearchRange(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		rng         Range
		matched     bool
	}{
		{"hit inside", "llo", Range{0, 5}, true},
		{"hit outside", "world", Range{0, 5}, false},
		{"hit overlapping edge", "o w", Range{0, 5}, true},
		{"range past end is clipped", "world", Range{6, 100}, true},
		{"zero length range", "hello", Range{0, 0}, false},
		{"negative offset is malformed", "world", Range{-1, 3}, true},
		{"negative length is malformed", "world", Range{0, -3}, true},
		{"offset past end is malformed", "world", Range{50, 2}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			rng := tc.rng
			item := NewRangedItem("hello world", "", &rng, nil, nil)
			match, ok := standardMatch(t, tc.text, item, DefaultOptions(), false)
			if ok != tc.matched {
				t.Fatalf("Expected matched=%v, got %v", tc.matched, ok)
			}
			if !ok && match.TitleRanges != nil {
				t.Errorf("Expected no highlight on a miss, got %v", match.TitleRanges)
			}
		})
	}
}

func TestMatcherSubtitleRangeDoesNotHideTitle(t *testing.T) {
	item := NewRangedItem("apple", "apple tart", nil, &Range{Offset: 6, Length: 4}, nil)
	match, ok := standardMatch(t, "apple", item, DefaultOptions(), false)
	if !ok {
		t.Fatal("Expected the title hit to match")
	}
	if !reflect.DeepEqual(match.TitleRanges, []Range{{0, 5}}) {
		t.Errorf("Unexpected title ranges %v", match.TitleRanges)
	}
	if match.SubtitleRanges != nil {
		t.Errorf("Subtitle hit outside its range was highlighted: %v", match.SubtitleRanges)
	}
}

func TestMatcherForceShowAll(t *testing.T) {
	match, ok := standardMatch(t, "zzz", NewItemWithSubtitle("Apple", "fruit"), DefaultOptions(), true)
	if !ok {
		t.Fatal("forceShowAll should match every item")
	}
	if match.TitleRanges != nil || match.SubtitleRanges != nil {
		t.Errorf("Expected no highlight without a textual hit, got %v %v", match.TitleRanges, match.SubtitleRanges)
	}

	match, _ = standardMatch(t, "pp", NewItem("Apple"), DefaultOptions(), true)
	if !reflect.DeepEqual(match.TitleRanges, []Range{{1, 2}}) {
		t.Errorf("Expected the real hit to stay highlighted, got %v", match.TitleRanges)
	}
}

func TestInlinePrefix(t *testing.T) {
	testCases := []struct {
		text        string
		after       string
		immediately bool
		prefix      string
		ok          bool
	}{
		{"GMa", "", false, "gma", true},
		{"", "", false, "", true},
		{"user@GM", "@", false, "gm", true},
		{"a@b@Cd", "@", false, "cd", true},
		{"user@", "@", false, "", false},
		{"user@", "@", true, "", true},
		{"no delimiter", "@", false, "", false},
		{"no delimiter", "@", true, "", false},
		{"to: bo", ": ", false, "bo", true},
		// the text is lowercased before it is split
		{"userXgm", "x", false, "gm", true},
		{"userXgm", "X", false, "", false},
		{"toXy", "X", true, "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.text+"|"+tc.after, func(t *testing.T) {
			prefix, ok := InlinePrefix(tc.text, tc.after, tc.immediately)
			if prefix != tc.prefix || ok != tc.ok {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tc.prefix, tc.ok, prefix, ok)
			}
		})
	}
}

func TestMatcherInline(t *testing.T) {
	inline := DefaultOptions()
	inline.Mode = Inline
	sensitive := inline
	sensitive.Comparison = CaseSensitive

	testCases := []struct {
		description string
		text        string
		title       string
		opts        Options
		matched     bool
		completion  string
	}{
		{"prefix", "gm", "gmail.com", inline, true, "ail.com"},
		{"case ignored", "GM", "Gmail.com", inline, true, "ail.com"},
		{"comparison option ignored", "gm", "Gmail.com", sensitive, true, "ail.com"},
		{"substring is not a prefix", "mail", "gmail.com", inline, false, ""},
		{"full title", "yahoo", "Yahoo", inline, true, ""},
		{"multibyte suffix", "jos", "Jos\u00e9", inline, true, "\u00e9"},
		{"multibyte prefix", "\u00e9", "\u00c9clair", inline, true, "clair"},
		{"inside a grapheme cluster", "e", "e\u0301x", inline, false, ""},
		{"after a grapheme cluster", "e\u0301", "e\u0301x", inline, true, "x"},
		{"decomposed title", "caf\u00e9", "Cafe\u0301 noir", inline, true, " noir"},
		{"decomposed text", "cafe\u0301", "Caf\u00e9", inline, true, ""},
		{"emoji", "👍", "👍🏽 ok", inline, false, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			match, ok := NewMatcher(tc.text, tc.opts, false).Inline(NewItem(tc.title))
			if ok != tc.matched {
				t.Fatalf("Text %q on %q: expected matched=%v, got %v", tc.text, tc.title, tc.matched, ok)
			}
			if match.Completion != tc.completion {
				t.Errorf("Expected completion %q, got %q", tc.completion, match.Completion)
			}
			if ok && match.TitleRanges != nil {
				t.Errorf("Inline matches carry no highlight, got %v", match.TitleRanges)
			}
		})
	}
}

// typed prefix plus completion gives back the title
func TestInlineCompletionReconstructsTitle(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = Inline
	titles := []string{"Apple", "apricot", "\u00c4rger", "日本語", "na\u00efve", "a b c"}

	for _, title := range titles {
		runes := []rune(title)
		for n := 0; n <= len(runes); n++ {
			typed := string(runes[:n])
			match, ok := NewMatcher(typed, opts, false).Inline(NewItem(title))
			if !ok {
				t.Errorf("%q should match its own prefix %q", title, typed)
				continue
			}
			if got := typed + match.Completion; got != title {
				t.Errorf("Reconstructed %q from %q, expected %q", got, typed, title)
			}
		}
	}
}

func TestMatcherInlineNotReady(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = Inline
	opts.StartFilteringAfter = "@"

	m := NewMatcher("gmail", opts, false)
	if m.InlineReady() {
		t.Fatal("Expected no inline pass without the delimiter")
	}
	if _, ok := m.Inline(NewItem("gmail.com")); ok {
		t.Error("Expected no match without the delimiter")
	}
}
