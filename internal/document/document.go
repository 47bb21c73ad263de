// Package document provides Document, the ordered sequence of styled lines a
// buffer displays.
//
// Newlines are structural: they separate lines and are never stored as
// characters. Document is not safe for concurrent use; the owning buffer
// serializes access.
package document

import (
	"bufio"
	"io"
	"strings"

	"github.com/dimchansky/utfbom"

	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/styledtext"
)

// Document holds lines of styled text. The zero value is an empty document.
type Document struct {
	lines []styledtext.Text
}

// New creates a document holding the given lines.
func New(lines ...styledtext.Text) *Document {
	d := &Document{}
	for _, l := range lines {
		d.AddLine(l)
	}
	return d
}

// AddLine appends a line.
func (d *Document) AddLine(text styledtext.Text) {
	d.lines = append(d.lines, text.Clone())
}

// AddText appends s split on newlines, one line per segment, all in style.
func (d *Document) AddText(s string, style core.Style) {
	for _, l := range styledtext.Lines(s, style) {
		d.lines = append(d.lines, l)
	}
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line i, or an empty text when i is out of range. The result
// shares storage with the document and is only valid until the next mutation
// of that line.
func (d *Document) Line(i int) styledtext.Text {
	if i < 0 || i >= len(d.lines) {
		return styledtext.Text{}
	}
	return d.lines[i].Freeze()
}

// LineLen returns the length of line i, 0 when out of range.
func (d *Document) LineLen(i int) int {
	if i < 0 || i >= len(d.lines) {
		return 0
	}
	return d.lines[i].Len()
}

// VisibleLines returns up to count lines starting at first. The window is
// clamped to the available lines.
func (d *Document) VisibleLines(first, count int) []styledtext.Text {
	first = min(max(first, 0), len(d.lines))
	end := min(first+max(count, 0), len(d.lines))
	res := make([]styledtext.Text, 0, end-first)
	for _, l := range d.lines[first:end] {
		res = append(res, l.Freeze())
	}
	return res
}

// SetLine replaces line i. Setting one past the last line appends; other
// out-of-range indexes are ignored.
func (d *Document) SetLine(i int, text styledtext.Text) {
	switch {
	case i >= 0 && i < len(d.lines):
		d.lines[i] = text.Clone()
	case i == len(d.lines):
		d.AddLine(text)
	}
}

// UpdateLine applies fn to line i in place. When the document is empty and
// i is 0, an empty line is created first.
func (d *Document) UpdateLine(i int, fn func(*styledtext.Text)) {
	if i == len(d.lines) && i == 0 {
		d.lines = append(d.lines, styledtext.Text{})
	}
	if i < 0 || i >= len(d.lines) {
		return
	}
	fn(&d.lines[i])
}

// InsertLine inserts text before line i. i is clamped to [0, LineCount].
func (d *Document) InsertLine(i int, text styledtext.Text) {
	i = min(max(i, 0), len(d.lines))
	d.lines = append(d.lines, styledtext.Text{})
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = text.Clone()
}

// RemoveLine deletes line i and returns it. Out-of-range indexes return an
// empty text and leave the document unchanged.
func (d *Document) RemoveLine(i int) styledtext.Text {
	if i < 0 || i >= len(d.lines) {
		return styledtext.Text{}
	}
	removed := d.lines[i]
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return removed
}

// Clear removes all lines.
func (d *Document) Clear() {
	d.lines = nil
}

// String joins the lines with newlines, dropping styles.
func (d *Document) String() string {
	var sb strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.String())
	}
	return sb.String()
}

// ReadFrom appends every line read from r as unstyled text. A leading byte
// order mark is skipped and CRLF line endings are accepted.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	counter := &countingReader{r: r}
	sc := bufio.NewScanner(utfbom.SkipOnly(counter))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		d.lines = append(d.lines, styledtext.Plain(strings.TrimSuffix(sc.Text(), "\r")))
	}
	return counter.n, sc.Err()
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
