package utils

import (
	"strings"
)

// DuplicateFilter drops repeated candidate titles while loading a candidate set.
// Titles are compared case-insensitively unless caseSensitive is set.
type DuplicateFilter struct {
	seen          map[string]bool
	caseSensitive bool
}

// NewDuplicateFilter creates an empty filter
func NewDuplicateFilter(caseSensitive bool) *DuplicateFilter {
	return &DuplicateFilter{
		seen:          make(map[string]bool),
		caseSensitive: caseSensitive,
	}
}

// ShouldInclude checks if a title should be kept (first time seen)
// Returns false for every later occurrence of the same title
func (f *DuplicateFilter) ShouldInclude(title string) bool {
	key := title
	if !f.caseSensitive {
		key = strings.ToLower(title)
	}
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

// Seen returns how many distinct titles passed the filter
func (f *DuplicateFilter) Seen() int {
	return len(f.seen)
}
