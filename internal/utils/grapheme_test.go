package utils

import "testing"

func TestIsGraphemeBoundary(t *testing.T) {
	testCases := []struct {
		description string
		s           string
		off         int
		expected    bool
	}{
		{"start", "abc", 0, true},
		{"middle", "abc", 2, true},
		{"end", "abc", 3, true},
		{"past end", "abc", 4, false},
		{"negative", "abc", -1, false},
		{"empty string start", "", 0, true},
		{"combining mark", "éx", 1, false},
		{"after combining mark", "éx", 2, true},
		{"skin tone", "👍🏽", 1, false},
		{"flag", "🇩🇪x", 2, true},
		{"inside flag", "🇩🇪x", 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := IsGraphemeBoundary(tc.s, tc.off); got != tc.expected {
				t.Errorf("IsGraphemeBoundary(%q, %d): expected %v, got %v", tc.s, tc.off, tc.expected, got)
			}
		})
	}
}

func TestSliceRunes(t *testing.T) {
	testCases := []struct {
		s        string
		start    int
		expected string
	}{
		{"hello", 0, "hello"},
		{"hello", 2, "llo"},
		{"hello", 5, ""},
		{"hello", 9, ""},
		{"Jos\u00e9", 3, "\u00e9"},
		{"日本語", 1, "本語"},
	}
	for _, tc := range testCases {
		if got := SliceRunes(tc.s, tc.start); got != tc.expected {
			t.Errorf("SliceRunes(%q, %d): expected %q, got %q", tc.s, tc.start, tc.expected, got)
		}
	}
}

func TestGraphemeCount(t *testing.T) {
	testCases := map[string]int{
		"":            0,
		"abc":         3,
		"e\u0301":     1,
		"\u00e9":      1,
		"👍🏽👍":         2,
		"🇩🇪🇫🇷":        2,
		"日本":          2,
	}
	for s, want := range testCases {
		if got := GraphemeCount(s); got != want {
			t.Errorf("GraphemeCount(%q): expected %d, got %d", s, want, got)
		}
	}
}
