package utils

import "testing"

func TestIndexRunes(t *testing.T) {
	testCases := []struct {
		haystack string
		needle   string
		fold     bool
		expected int
	}{
		{"hello", "", false, 0},
		{"", "a", false, -1},
		{"hello", "llo", false, 2},
		{"hello", "LLO", false, -1},
		{"hello", "LLO", true, 2},
		{"Straße", "SSE", true, -1}, // simple folding only
		{"ÀÉÎ", "éî", true, 1},
		{"日本語テキスト", "テキ", false, 3},
		{"ab", "abc", false, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.haystack+"/"+tc.needle, func(t *testing.T) {
			got := IndexRunes([]rune(tc.haystack), []rune(tc.needle), tc.fold)
			if got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestEqualFold(t *testing.T) {
	testCases := []struct {
		a, b     rune
		expected bool
	}{
		{'a', 'A', true},
		{'z', 'Z', true},
		{'a', 'b', false},
		{'@', '`', false},
		{'\u00e9', '\u00c9', true},
		{'k', '\u212A', true}, // Kelvin sign
		{'σ', 'ς', true},
		{'1', '1', true},
	}
	for _, tc := range testCases {
		if got := EqualFold(tc.a, tc.b); got != tc.expected {
			t.Errorf("EqualFold(%q, %q): expected %v, got %v", tc.a, tc.b, tc.expected, got)
		}
	}
}

func TestToLowerRunesKeepsLength(t *testing.T) {
	for _, s := range []string{"HELLO", "İstanbul", "ΣΑΣ", "Ǆ"} {
		if got, want := len(ToLowerRunes(s)), len([]rune(s)); got != want {
			t.Errorf("%q: lowered to %d runes, expected %d", s, got, want)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, want := range testCases {
		if got := FormatWithCommas(n); got != want {
			t.Errorf("FormatWithCommas(%d): expected %q, got %q", n, want, got)
		}
	}
}
