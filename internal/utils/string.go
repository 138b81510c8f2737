package utils

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EqualFold performs case-insensitive rune equality check
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}

	// Try simple ASCII case folding first (faster)
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}

	// Walk the Unicode folding orbit of a
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// IndexRunes returns the rune offset of the first occurrence of needle in
// haystack, or -1. An empty needle is found at offset 0.
func IndexRunes(haystack, needle []rune, foldCase bool) int {
	if len(needle) == 0 {
		return 0
	}
	last := len(haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if hasRunePrefix(haystack[i:], needle, foldCase) {
			return i
		}
	}
	return -1
}

func hasRunePrefix(s, prefix []rune, foldCase bool) bool {
	for j, r := range prefix {
		if s[j] == r {
			continue
		}
		if !foldCase || !EqualFold(s[j], r) {
			return false
		}
	}
	return true
}

// ToLowerRunes lowercases s rune by rune, so the rune count never changes.
func ToLowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// FormatWithCommas renders n with thousands separators.
func FormatWithCommas(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	b.WriteString(sign)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}
