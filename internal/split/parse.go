package split

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/panes/internal/buffer"
)

// ErrUnknownBuffer is returned when a tree literal names a buffer that was
// not supplied.
var ErrUnknownBuffer = errors.New("unknown buffer")

// ParseError describes a malformed tree literal.
type ParseError struct {
	// Pos is the byte offset where parsing failed.
	Pos int
	// Msg describes the problem.
	Msg string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("tree literal at offset %d: %s", e.Pos, e.Msg)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse builds a tree from a literal such as
//
//	Vertical: { 3: { 1: left, 1: right }, 1!: prompt }
//
// Each entry is a size followed by a child. A plain integer is a flexible
// weight; a trailing '!' makes it a fixed extent. A child is a buffer name,
// '_' for an empty slot, a nested block, or an explicit "Orientation: {...}".
// A nested block without an orientation divides the other axis from its
// parent. Trailing commas are allowed. A bare buffer name is a single-leaf
// tree.
func Parse(src string, buffers map[string]*buffer.Buffer) (*Tree, error) {
	p := &parser{src: src, buffers: buffers}
	p.skipSpace()
	var root Node
	var err error
	if p.peek() == '{' {
		root, err = p.block(Stacked)
	} else {
		root, err = p.child(Stacked)
	}
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after tree", p.src[p.pos])
	}
	return NewTree(root), nil
}

type parser struct {
	src     string
	pos     int
	buffers map[string]*buffer.Buffer
}

// child parses a buffer name, '_', a bare block or "Orientation: block".
// parent is the orientation a bare block flips.
func (p *parser) child(parent Orientation) (Node, error) {
	p.skipSpace()
	if p.peek() == '{' {
		return p.block(parent.Flip())
	}
	start := p.pos
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected buffer name or block")
	}
	if name == "_" {
		return Leaf(nil), nil
	}

	p.skipSpace()
	if p.peek() == ':' {
		var o Orientation
		switch name {
		case "Vertical":
			o = Stacked
		case "Horizontal":
			o = SideBySide
		default:
			return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("unknown orientation %q", name)}
		}
		p.pos++
		p.skipSpace()
		if p.peek() != '{' {
			return nil, p.errorf("expected '{' after %s:", name)
		}
		return p.block(o)
	}

	buf, ok := p.buffers[name]
	if !ok {
		return nil, &ParseError{
			Pos: start,
			Msg: fmt.Sprintf("%v %q", ErrUnknownBuffer, name),
			Err: ErrUnknownBuffer,
		}
	}
	return Leaf(buf), nil
}

// block parses "{ size: child, ... }" into a container of orientation o.
func (p *parser) block(o Orientation) (Node, error) {
	p.pos++ // '{'
	c := &Container{Orientation: o}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			break
		}
		size, err := p.size()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after size")
		}
		p.pos++
		node, err := p.child(o)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, Child{Size: size, Node: node})

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
	if len(c.Children) == 0 {
		return nil, p.errorf("empty block")
	}
	return c, nil
}

func (p *parser) size() (Size, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return Size{}, p.errorf("expected size")
	}
	v, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return Size{}, &ParseError{Pos: start, Msg: "size out of range", Err: err}
	}
	if p.peek() == '!' {
		p.pos++
		return Size{Kind: SizeFixed, Value: v}, nil
	}
	return Size{Kind: SizeFlex, Value: v}, nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}
