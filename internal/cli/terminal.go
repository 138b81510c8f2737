package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/searchfield/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxTitleWidth = 40

// Renderer formats dropdown rows for the terminal.
type Renderer struct {
	highlight bool
	match     lipgloss.Style
	subtitle  lipgloss.Style
	ghost     lipgloss.Style
}

// NewRenderer creates a renderer. With highlight off rows are printed plain.
func NewRenderer(highlight bool) *Renderer {
	return &Renderer{
		highlight: highlight,
		match: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		subtitle: lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
		ghost: lipgloss.NewStyle().Faint(true),
	}
}

// Rows renders a snapshot, one line per row, titles aligned in one column.
func (r *Renderer) Rows(snap suggest.Snapshot) []string {
	width := 0
	for _, res := range snap.Results {
		width = max(width, lipgloss.Width(r.title(res)))
	}

	lines := make([]string, 0, len(snap.Results))
	for i, res := range snap.Results {
		lines = append(lines, r.Row(i, res, width))
	}
	return lines
}

// Row renders one result with its highlighted spans, padded to width columns.
func (r *Renderer) Row(i int, res suggest.Result, width int) string {
	title := r.title(res)

	var b strings.Builder
	fmt.Fprintf(&b, "%2d. ", i+1)
	b.WriteString(title)
	b.WriteString(strings.Repeat(" ", max(width-lipgloss.Width(title), 0)))
	if res.Item.Subtitle != "" {
		b.WriteString("  ")
		b.WriteString(r.subtitleText(res.Item.Subtitle, res.SubtitleRanges))
	}
	if res.Completion != "" {
		fmt.Fprintf(&b, "  (+%s)", res.Completion)
	}
	return b.String()
}

// title highlights the matched spans. Long titles without a highlight are cut.
func (r *Renderer) title(res suggest.Result) string {
	title := res.Item.Title
	if len(res.TitleRanges) == 0 && runewidth.StringWidth(title) > maxTitleWidth {
		return runewidth.Truncate(title, maxTitleWidth, "…")
	}
	return r.Highlight(title, res.TitleRanges)
}

// Highlight styles the given rune ranges of s. Ranges are clipped to s.
func (r *Renderer) Highlight(s string, ranges []suggest.Range) string {
	if len(ranges) == 0 {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	pos := 0
	for _, rng := range ranges {
		start := min(max(rng.Offset, pos), len(runes))
		end := min(rng.End(), len(runes))
		if end <= start {
			continue
		}
		b.WriteString(string(runes[pos:start]))
		b.WriteString(r.styled(r.match, string(runes[start:end]), "[", "]"))
		pos = end
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

// Ghost renders the field text followed by the inline completion.
func (r *Renderer) Ghost(text, completion string) string {
	if completion == "" {
		return text
	}
	return text + r.styled(r.ghost, completion, "‹", "›")
}

func (r *Renderer) subtitleText(s string, ranges []suggest.Range) string {
	s = r.Highlight(s, ranges)
	if !r.highlight {
		return "- " + s
	}
	return r.subtitle.Render(s)
}

// styled renders with style, or wraps in open/close when colors are off.
func (r *Renderer) styled(style lipgloss.Style, s, open, close string) string {
	if !r.highlight {
		return open + s + close
	}
	return style.Render(s)
}
