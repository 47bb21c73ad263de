package split

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panes/internal/buffer"
)

func testBuffers() map[string]*buffer.Buffer {
	return map[string]*buffer.Buffer{
		"output": buffer.New(buffer.WithName("output")),
		"prompt": buffer.New(buffer.WithName("prompt")),
		"side":   buffer.New(buffer.WithName("side")),
	}
}

func TestParse(t *testing.T) {
	bufs := testBuffers()
	tree, err := Parse("Vertical: { 1: output, 1!: prompt }", bufs)
	require.NoError(t, err)

	root, ok := tree.Root().(*Container)
	require.True(t, ok)
	assert.Equal(t, Stacked, root.Orientation)
	require.Len(t, root.Children, 2)
	assert.Equal(t, Size{Kind: SizeFlex, Value: 1}, root.Children[0].Size)
	assert.Equal(t, Size{Kind: SizeFixed, Value: 1}, root.Children[1].Size)
	assert.Same(t, bufs["prompt"], root.Children[1].Node.(*LeafNode).Buffer)
}

func TestParseNestedFlipsOrientation(t *testing.T) {
	bufs := testBuffers()
	tree, err := Parse(`Vertical: {
		2: {
			1: output,
			1: side,
		},
		1!: prompt,
	}`, bufs)
	require.NoError(t, err)

	root := tree.Root().(*Container)
	inner, ok := root.Children[0].Node.(*Container)
	require.True(t, ok)
	assert.Equal(t, SideBySide, inner.Orientation)
	assert.Len(t, inner.Children, 2)

	tree, err = Parse("Horizontal: { 1: Horizontal: { 1: output }, 1: { 1: side } }", bufs)
	require.NoError(t, err)
	root = tree.Root().(*Container)
	assert.Equal(t, SideBySide, root.Children[0].Node.(*Container).Orientation)
	assert.Equal(t, Stacked, root.Children[1].Node.(*Container).Orientation)
}

func TestParseForms(t *testing.T) {
	bufs := testBuffers()

	tree, err := Parse("output", bufs)
	require.NoError(t, err)
	assert.Same(t, bufs["output"], tree.Root().(*LeafNode).Buffer)

	tree, err = Parse("{ 1: output, 1: _ }", bufs)
	require.NoError(t, err)
	root := tree.Root().(*Container)
	assert.Equal(t, Stacked, root.Orientation)
	assert.Nil(t, root.Children[1].Node.(*LeafNode).Buffer)
	assert.Len(t, tree.Buffers(), 1)
}

func TestParseErrors(t *testing.T) {
	bufs := testBuffers()
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"empty block", "Vertical: { }"},
		{"missing colon", "Vertical: { 1 output }"},
		{"missing size", "Vertical: { output }"},
		{"bad orientation", "Diagonal: { 1: output }"},
		{"unterminated", "Vertical: { 1: output,"},
		{"trailing garbage", "Vertical: { 1: output } x"},
		{"missing separator", "Vertical: { 1: output 1: prompt }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, bufs)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Msg)
		})
	}
}

func TestParseUnknownBuffer(t *testing.T) {
	_, err := Parse("Vertical: { 1: output, 1!: missing }", testBuffers())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBuffer))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 27, pe.Pos)
}

func TestParseUnicodeNames(t *testing.T) {
	bufs := map[string]*buffer.Buffer{
		"señal": buffer.New(buffer.WithName("señal")),
		"日志":    buffer.New(buffer.WithName("日志")),
	}
	tree, err := Parse("Horizontal:\u00a0{ 1: señal, 2!: 日志 }", bufs)
	require.NoError(t, err)

	root := tree.Root().(*Container)
	require.Len(t, root.Children, 2)
	assert.Same(t, bufs["señal"], root.Children[0].Node.(*LeafNode).Buffer)
	assert.Same(t, bufs["日志"], root.Children[1].Node.(*LeafNode).Buffer)

	_, err = Parse("Vertical: { 1: seña }", bufs)
	assert.ErrorIs(t, err, ErrUnknownBuffer)
	assert.Contains(t, err.Error(), `"seña"`)
}

func TestTreeStringRoundTrip(t *testing.T) {
	bufs := testBuffers()
	src := "Vertical: { 2: { 1: output, 1: side }, 1!: prompt }"
	tree, err := Parse(src, bufs)
	require.NoError(t, err)
	assert.Equal(t, src, tree.String())

	again, err := Parse(tree.String(), bufs)
	require.NoError(t, err)
	assert.Equal(t, tree.String(), again.String())

	explicit := NewTree(Horizontal(Flex(1, Horizontal(Fixed(3, Leaf(bufs["side"]))))))
	assert.Equal(t, "Horizontal: { 1: Horizontal: { 3!: side } }", explicit.String())
}
