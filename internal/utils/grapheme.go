package utils

import "github.com/rivo/uniseg"

// IsGraphemeBoundary reports whether the rune offset off in s falls between
// two grapheme clusters. Offsets 0 and the rune count of s are always boundaries.
func IsGraphemeBoundary(s string, off int) bool {
	if off <= 0 {
		return off == 0
	}
	g := uniseg.NewGraphemes(s)
	pos := 0
	for g.Next() {
		pos += len(g.Runes())
		if pos == off {
			return true
		}
		if pos > off {
			return false
		}
	}
	return false
}

// SliceRunes returns s[start:] counted in runes.
func SliceRunes(s string, start int) string {
	if start <= 0 {
		return s
	}
	for i := range s {
		if start == 0 {
			return s[i:]
		}
		start--
	}
	return ""
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
