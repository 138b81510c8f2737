package utils

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldNFC returns s in Unicode normalization form C, lowercased rune by rune.
// Canonically equivalent strings fold to the same runes.
func FoldNFC(s string) []rune {
	return ToLowerRunes(norm.NFC.String(s))
}

// CanonicalPrefixEnd reports whether s starts with prefix under canonical
// equivalence and case folding. prefix must already be folded with FoldNFC.
// end is the byte offset in s where the prefix stops. A prefix that ends in
// the middle of a normalization segment of s does not match.
func CanonicalPrefixEnd(s string, prefix []rune) (end int, ok bool) {
	if len(prefix) == 0 {
		return 0, true
	}
	consumed := 0
	for pos := 0; pos < len(s); {
		n := norm.NFC.NextBoundaryInString(s[pos:], true)
		if n <= 0 {
			n = len(s) - pos
		}
		for _, r := range norm.NFC.String(s[pos : pos+n]) {
			if consumed == len(prefix) || unicode.ToLower(r) != prefix[consumed] {
				return 0, false
			}
			consumed++
		}
		pos += n
		if consumed == len(prefix) {
			return pos, true
		}
	}
	return 0, false
}
