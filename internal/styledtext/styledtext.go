// Package styledtext provides Text, a sequence of characters with a style
// attributed to every character.
//
// Styles are stored as runs: each run covers a contiguous range of characters
// sharing one style. Adjacent runs with equal styles are always coalesced, so
// two texts built from different fragment boundaries compare equal when their
// characters and per-character styles match. Positions are rune indexes.
//
// Text values share their backing storage when copied. Mutating methods take a
// pointer receiver and may grow that storage, so hand out Freeze or Clone
// copies when the original keeps being mutated.
package styledtext

import (
	"sort"
	"strings"

	"github.com/dshills/panes/internal/renderer/core"
)

// Text is styled text. The zero value is an empty text ready to use.
type Text struct {
	runes []rune
	runs  []run
}

// run covers characters from start up to the next run's start, or to the end
// of the text for the last run. Existing runs are never modified in place, so
// appending to a copy never changes what the original observes.
type run struct {
	start int
	style core.Style
}

// Span describes one run of equally styled characters.
type Span struct {
	Start int // first rune (inclusive)
	End   int // last rune (exclusive)
	Style core.Style
}

// Len returns the number of runes in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Segment is a run materialized as a string, ready to be painted.
type Segment struct {
	Text  string
	Style core.Style
}

// Plain creates unstyled text.
func Plain(s string) Text {
	return Styled(s, core.DefaultStyle())
}

// Styled creates text where every character has the given style.
func Styled(s string, style core.Style) Text {
	var t Text
	t.AppendString(s, style)
	return t
}

// New concatenates fragments into a single text.
func New(fragments ...Text) Text {
	var t Text
	for _, f := range fragments {
		t.Append(f)
	}
	return t
}

// Len returns the number of characters.
func (t Text) Len() int {
	return len(t.runes)
}

// IsEmpty reports whether the text has no characters.
func (t Text) IsEmpty() bool {
	return len(t.runes) == 0
}

// String returns the characters without styling.
func (t Text) String() string {
	return string(t.runes)
}

// RuneAt returns the character at i, or 0 when i is out of range.
func (t Text) RuneAt(i int) rune {
	if i < 0 || i >= len(t.runes) {
		return 0
	}
	return t.runes[i]
}

// StyleAt returns the style of the character at i, or the default style when
// i is out of range. Lookup is a binary search over the runs.
func (t Text) StyleAt(i int) core.Style {
	if i < 0 || i >= len(t.runes) {
		return core.DefaultStyle()
	}
	k := sort.Search(len(t.runs), func(k int) bool { return t.runs[k].start > i })
	return t.runs[k-1].style
}

// runEnd returns the exclusive end of run k.
func (t Text) runEnd(k int) int {
	if k+1 < len(t.runs) {
		return t.runs[k+1].start
	}
	return len(t.runes)
}

// Spans returns the style runs in order.
func (t Text) Spans() []Span {
	spans := make([]Span, 0, len(t.runs))
	for k, r := range t.runs {
		spans = append(spans, Span{Start: r.start, End: t.runEnd(k), Style: r.style})
	}
	return spans
}

// Segments returns each run as a string with its style.
func (t Text) Segments() []Segment {
	segs := make([]Segment, 0, len(t.runs))
	for k, r := range t.runs {
		segs = append(segs, Segment{Text: string(t.runes[r.start:t.runEnd(k)]), Style: r.style})
	}
	return segs
}

// Append concatenates other onto t.
func (t *Text) Append(other Text) {
	for k, r := range other.runs {
		t.appendRun(other.runes[r.start:other.runEnd(k)], r.style)
	}
}

// AppendString appends s with a single style.
func (t *Text) AppendString(s string, style core.Style) {
	t.appendRun([]rune(s), style)
}

// AppendRune appends one character.
func (t *Text) AppendRune(r rune, style core.Style) {
	t.appendRun([]rune{r}, style)
}

// Concat returns a new text holding t followed by other. Neither operand is
// modified.
func (t Text) Concat(other Text) Text {
	res := t.Clone()
	res.Append(other)
	return res
}

// Take returns the current content and resets t to empty.
func (t *Text) Take() Text {
	res := *t
	*t = Text{}
	return res
}

// Reset empties the text.
func (t *Text) Reset() {
	*t = Text{}
}

// Freeze returns a copy of t that shares its storage for reading but whose
// capacity is trimmed, so any append to the copy reallocates instead of
// writing into t's storage.
func (t Text) Freeze() Text {
	return Text{
		runes: t.runes[:len(t.runes):len(t.runes)],
		runs:  t.runs[:len(t.runs):len(t.runs)],
	}
}

// Clone returns a deep copy.
func (t Text) Clone() Text {
	if len(t.runes) == 0 {
		return Text{}
	}
	return Text{
		runes: append([]rune(nil), t.runes...),
		runs:  append([]run(nil), t.runs...),
	}
}

// Equal reports whether both texts have the same characters with the same
// styles.
func (t Text) Equal(other Text) bool {
	if len(t.runes) != len(other.runes) || len(t.runs) != len(other.runs) {
		return false
	}
	for i := range t.runes {
		if t.runes[i] != other.runes[i] {
			return false
		}
	}
	for i := range t.runs {
		if t.runs[i].start != other.runs[i].start || !t.runs[i].style.Equals(other.runs[i].style) {
			return false
		}
	}
	return true
}

// Slice returns the characters in [start, end). Bounds are clamped.
func (t Text) Slice(start, end int) Text {
	start, end = clampRange(start, end, len(t.runes))
	var res Text
	if start == end {
		return res
	}
	for k, r := range t.runs {
		runEnd := t.runEnd(k)
		s, e := max(r.start, start), min(runEnd, end)
		if s < e {
			res.appendRun(t.runes[s:e], r.style)
		}
		if runEnd >= end {
			break
		}
	}
	return res
}

// SplitAt splits the text at index i into the part before and the part from
// i on. i is clamped.
func (t Text) SplitAt(i int) (Text, Text) {
	return t.Slice(0, i), t.Slice(i, len(t.runes))
}

// InsertAt inserts other before index i. An index past the end appends.
func (t *Text) InsertAt(i int, other Text) {
	t.ReplaceRange(i, i, other)
}

// DeleteRange removes the characters in [start, end). Bounds are clamped.
func (t *Text) DeleteRange(start, end int) {
	t.ReplaceRange(start, end, Text{})
}

// ReplaceRange replaces [start, end) with other. Bounds are clamped, so a
// start beyond the end appends.
func (t *Text) ReplaceRange(start, end int, other Text) {
	start, end = clampRange(start, end, len(t.runes))
	res := t.Slice(0, start)
	res.Append(other)
	res.Append(t.Slice(end, len(t.runes)))
	*t = res
}

func (t *Text) appendRun(rs []rune, style core.Style) {
	if len(rs) == 0 {
		return
	}
	start := len(t.runes)
	t.runes = append(t.runes, rs...)
	if n := len(t.runs); n > 0 && t.runs[n-1].style.Equals(style) {
		return
	}
	t.runs = append(t.runs, run{start: start, style: style})
}

func clampRange(start, end, n int) (int, int) {
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return start, end
}

// Lines splits s on newlines into unstyled texts. A trailing carriage return
// on each line is dropped.
func Lines(s string, style core.Style) []Text {
	parts := strings.Split(s, "\n")
	lines := make([]Text, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, Styled(strings.TrimSuffix(p, "\r"), style))
	}
	return lines
}
