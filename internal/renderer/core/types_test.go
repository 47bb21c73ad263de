package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorDefault(t *testing.T) {
	assert.True(t, ColorDefault.IsDefault())
	assert.True(t, Color{}.IsDefault())
	assert.False(t, ColorRed.IsDefault())
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b uint8
		wantErr bool
	}{
		{"#FF8040", 255, 128, 64, false},
		{"#ff8040", 255, 128, 64, false},
		{"FF8040", 255, 128, 64, false},
		{"#FFF", 255, 255, 255, false},
		{"#000", 0, 0, 0, false},
		{"invalid", 0, 0, 0, true},
		{"#GGG", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ColorFromHex(tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ColorFromRGB(tt.r, tt.g, tt.b), c)
		})
	}
}

func TestColorEquals(t *testing.T) {
	assert.True(t, ColorFromRGB(1, 2, 3).Equals(ColorFromRGB(1, 2, 3)))
	assert.False(t, ColorFromRGB(1, 2, 3).Equals(ColorFromRGB(1, 2, 4)))
	assert.True(t, ColorFromIndex(10).Equals(ColorFromIndex(10)))
	assert.False(t, ColorFromIndex(10).Equals(ColorFromRGB(10, 0, 0)))
	assert.False(t, ColorDefault.Equals(ColorBlack))
}

func TestColorBlend(t *testing.T) {
	assert.Equal(t, ColorBlack, ColorBlack.Blend(ColorWhite, 0))
	assert.Equal(t, ColorWhite, ColorBlack.Blend(ColorWhite, 1))

	mid := ColorBlack.Blend(ColorWhite, 0.5)
	assert.Greater(t, mid.R, uint8(0))
	assert.Less(t, mid.R, uint8(255))

	// indexed colors snap to the nearer endpoint
	assert.Equal(t, ColorFromIndex(1), ColorFromIndex(1).Blend(ColorWhite, 0.2))
	assert.Equal(t, ColorWhite, ColorFromIndex(1).Blend(ColorWhite, 0.8))
}

func TestStyleMerge(t *testing.T) {
	base := NewStyle(ColorRed).Bold()
	over := DefaultStyle().WithBackground(ColorBlue).Italic()

	got := base.Merge(over)
	assert.True(t, got.Foreground.Equals(ColorRed))
	assert.True(t, got.Background.Equals(ColorBlue))
	assert.True(t, got.Attributes.Has(AttrBold))
	assert.True(t, got.Attributes.Has(AttrItalic))
}

func TestStyleEquals(t *testing.T) {
	assert.True(t, DefaultStyle().Equals(Style{}))
	assert.True(t, DefaultStyle().IsDefault())
	assert.False(t, DefaultStyle().Bold().IsDefault())
	assert.False(t, NewStyle(ColorRed).Equals(NewStyle(ColorGreen)))
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 5)
	assert.Equal(t, 5, r.Width())
	assert.Equal(t, 4, r.Height())
	assert.True(t, r.Contains(ScreenPos{Row: 2, Col: 3}))
	assert.False(t, r.Contains(ScreenPos{Row: 6, Col: 3}))
	assert.False(t, r.IsEmpty())
	assert.True(t, RectFromSize(0, 0, 0, 10).IsEmpty())
	assert.Equal(t, 0, ScreenRect{Top: 5, Bottom: 2}.Height())
	assert.True(t, r.Intersects(RectFromSize(5, 7, 3, 3)))
	assert.False(t, r.Intersects(RectFromSize(6, 0, 1, 100)))
}

func TestWidths(t *testing.T) {
	assert.Equal(t, 1, RuneWidth('a'))
	assert.Equal(t, 2, RuneWidth('世'))
	assert.Equal(t, 0, RuneWidth('\t'))
	assert.Equal(t, 5, StringWidth("hello"))
	assert.Equal(t, 4, StringWidth("世界"))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "世", Truncate("世界", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}
