package suggest

import (
	"strings"
	"time"
)

// Mode selects how candidates are matched and presented.
type Mode uint8

const (
	// Standard matches substrings of title and subtitle and highlights them.
	Standard Mode = iota
	// Inline matches title prefixes and exposes a ghost-text completion.
	Inline
)

func (m Mode) String() string {
	if m == Inline {
		return "inline"
	}
	return "standard"
}

// Comparison is the string comparison policy used in Standard mode.
type Comparison uint8

const (
	CaseInsensitive Comparison = iota
	CaseSensitive
)

func (c Comparison) String() string {
	if c == CaseSensitive {
		return "case_sensitive"
	}
	return "case_insensitive"
}

// ParseComparison maps a config string onto a Comparison.
func ParseComparison(s string) (Comparison, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "case_insensitive", "caseinsensitive", "insensitive":
		return CaseInsensitive, true
	case "case_sensitive", "casesensitive", "sensitive":
		return CaseSensitive, true
	}
	return CaseInsensitive, false
}

// DefaultTypingStoppedDelay is how long the input must stay quiet before the
// typing-stopped handler fires.
const DefaultTypingStoppedDelay = 800 * time.Millisecond

// Options is the caller-settable configuration surface of an Engine.
// Fields are validated for type only; see normalize for how odd values are read.
type Options struct {
	// MaxResults caps the number of rows the view is told to show. 0 = no cap.
	MaxResults int
	// MinCharacters is the number of characters (grapheme clusters) the text
	// needs before a non-forced pass matches anything. Negative reads as 0.
	MinCharacters      int
	TypingStoppedDelay time.Duration
	Comparison         Comparison
	Mode               Mode

	// StartFilteringAfter is the inline delimiter, e.g. "@". Empty means unset.
	StartFilteringAfter string
	// StartSuggestingImmediately lets an empty suffix after the delimiter match.
	StartSuggestingImmediately bool

	ForceNoFiltering               bool
	StartVisible                   bool
	StartVisibleWithoutInteraction bool
}

// DefaultOptions returns the options used by NewEngine.
func DefaultOptions() Options {
	return Options{
		TypingStoppedDelay: DefaultTypingStoppedDelay,
		Comparison:         CaseInsensitive,
		Mode:               Standard,
	}
}

func (o Options) normalize() Options {
	o.MaxResults = max(o.MaxResults, 0)
	o.MinCharacters = max(o.MinCharacters, 0)
	if o.TypingStoppedDelay <= 0 {
		o.TypingStoppedDelay = DefaultTypingStoppedDelay
	}
	if o.Comparison > CaseSensitive {
		o.Comparison = CaseInsensitive
	}
	if o.Mode > Inline {
		o.Mode = Standard
	}
	return o
}

func (o Options) startsVisible() bool {
	return o.StartVisible || o.StartVisibleWithoutInteraction
}
