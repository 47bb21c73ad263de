// Package split describes how the screen is divided between buffers.
//
// A Tree is an n-ary tree of containers and leaves. Each container divides
// its extent along one axis between its children; each child claims either a
// flexible weight (a proportional share of what is left) or a fixed number of
// rows or columns. Leaves reference buffers; a tree holds shared references
// and never owns buffer content.
//
// Layout turns a tree and a viewport into a SplitMap, the rectangles each
// buffer occupies for that one pass.
package split

import (
	"strconv"
	"strings"

	"github.com/dshills/panes/internal/buffer"
)

// Orientation is the axis a container divides.
type Orientation uint8

const (
	// Stacked containers place children top to bottom and divide rows.
	Stacked Orientation = iota

	// SideBySide containers place children left to right and divide columns.
	SideBySide
)

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == Stacked {
		return SideBySide
	}
	return Stacked
}

// String returns the name used in tree literals.
func (o Orientation) String() string {
	if o == Stacked {
		return "Vertical"
	}
	return "Horizontal"
}

// SizeKind selects how a child's share is computed.
type SizeKind uint8

const (
	// SizeFlex claims a weighted share of the space left after fixed children.
	SizeFlex SizeKind = iota

	// SizeFixed claims an exact extent, clamped to what is available.
	SizeFixed
)

// Size is a child's sizing hint. Negative values are treated as zero.
type Size struct {
	Kind  SizeKind
	Value int
}

// String returns the literal form: "2" for a weight, "1!" for a fixed extent.
func (s Size) String() string {
	v := strconv.Itoa(max(s.Value, 0))
	if s.Kind == SizeFixed {
		return v + "!"
	}
	return v
}

// Node is a tree node: a *Container or a *LeafNode.
type Node interface {
	isNode()
}

// LeafNode displays one buffer.
type LeafNode struct {
	Buffer *buffer.Buffer
}

func (*LeafNode) isNode() {}

// Container divides its rectangle between its children.
type Container struct {
	Orientation Orientation
	Children    []Child
}

func (*Container) isNode() {}

// Child is a node together with its sizing hint.
type Child struct {
	Size Size
	Node Node
}

// Leaf creates a leaf for buf.
func Leaf(buf *buffer.Buffer) *LeafNode {
	return &LeafNode{Buffer: buf}
}

// Vertical creates a container stacking its children top to bottom.
func Vertical(children ...Child) *Container {
	return &Container{Orientation: Stacked, Children: children}
}

// Horizontal creates a container placing its children side by side.
func Horizontal(children ...Child) *Container {
	return &Container{Orientation: SideBySide, Children: children}
}

// Flex wraps node with a flexible weight.
func Flex(weight int, node Node) Child {
	return Child{Size: Size{Kind: SizeFlex, Value: weight}, Node: node}
}

// Fixed wraps node with a fixed extent.
func Fixed(extent int, node Node) Child {
	return Child{Size: Size{Kind: SizeFixed, Value: extent}, Node: node}
}

// Tree is a complete layout description.
type Tree struct {
	root       Node
	separators bool
}

// NewTree creates a tree rooted at root.
func NewTree(root Node) *Tree {
	return &Tree{root: root}
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.root
}

// WithSeparators reserves one row or column between sibling nodes for a
// divider line. It returns t for chaining.
func (t *Tree) WithSeparators(on bool) *Tree {
	t.separators = on
	return t
}

// Separators reports whether dividers are reserved.
func (t *Tree) Separators() bool {
	return t.separators
}

// Layout computes the rectangles of every leaf against a viewport.
func (t *Tree) Layout(vp Viewport) *SplitMap {
	return layout(t.root, vp, t.separators)
}

// Buffers returns the distinct buffers referenced by the tree, in leaf order.
func (t *Tree) Buffers() []*buffer.Buffer {
	var bufs []*buffer.Buffer
	seen := make(map[*buffer.Buffer]bool)
	walk(t.root, func(l *LeafNode) {
		if l.Buffer != nil && !seen[l.Buffer] {
			seen[l.Buffer] = true
			bufs = append(bufs, l.Buffer)
		}
	})
	return bufs
}

// String prints the tree as a literal accepted by Parse, using buffer names.
func (t *Tree) String() string {
	var sb strings.Builder
	switch n := t.root.(type) {
	case *Container:
		sb.WriteString(n.Orientation.String())
		sb.WriteString(": ")
		writeBlock(&sb, n)
	case *LeafNode:
		sb.WriteString(leafName(n))
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, c *Container) {
	sb.WriteString("{ ")
	for i, ch := range c.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ch.Size.String())
		sb.WriteString(": ")
		switch n := ch.Node.(type) {
		case *Container:
			if n.Orientation != c.Orientation.Flip() {
				sb.WriteString(n.Orientation.String())
				sb.WriteString(": ")
			}
			writeBlock(sb, n)
		case *LeafNode:
			sb.WriteString(leafName(n))
		}
	}
	sb.WriteString(" }")
}

func leafName(l *LeafNode) string {
	if l.Buffer == nil {
		return "_"
	}
	return l.Buffer.Name()
}

func walk(n Node, fn func(*LeafNode)) {
	switch n := n.(type) {
	case *LeafNode:
		fn(n)
	case *Container:
		for _, ch := range n.Children {
			walk(ch.Node, fn)
		}
	}
}
